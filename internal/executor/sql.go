// Package executor runs rewritten statements against a database/sql backend.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/matsen/agviewer/internal/entity"
	"github.com/matsen/agviewer/internal/result"
)

// AGEPreamble loads AGE and puts ag_catalog on the search path.
var AGEPreamble = []string{
	"LOAD 'age'",
	`SET search_path = ag_catalog, "$user", public`,
}

// SQL executes statements over a *sql.DB. Preamble statements run on the same
// connection before every statement and show up as leading results.
type SQL struct {
	db       *sql.DB
	preamble []string
	limiter  *rate.Limiter
	logger   *slog.Logger
	agtype   bool
}

// Option configures a SQL executor.
type Option func(*SQL)

// WithPreamble sets statements run before every execution.
func WithPreamble(stmts ...string) Option {
	return func(e *SQL) {
		e.preamble = append([]string(nil), stmts...)
	}
}

// WithRateLimit caps executions per second. Zero or less disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(e *SQL) {
		if perSecond <= 0 {
			e.limiter = nil
			return
		}
		e.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *SQL) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAgtype also decodes text cells of columns whose type the driver does
// not name, as pgx does for agtype. Columns of a named type such as text or
// int4 are left alone.
func WithAgtype() Option {
	return func(e *SQL) {
		e.agtype = true
	}
}

// New creates an executor over db.
func New(db *sql.DB, opts ...Option) *SQL {
	e := &SQL{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open opens a database with the given driver and creates an executor over it.
func Open(driver, dsn string, opts ...Option) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	return New(db, opts...), nil
}

// Close closes the underlying database.
func (e *SQL) Close() error {
	return e.db.Close()
}

// Execute runs the preamble and then statement, returning one result per
// statement in execution order.
func (e *SQL) Execute(ctx context.Context, statement string) ([]*result.Raw, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	results := make([]*result.Raw, 0, len(e.preamble)+1)
	for _, stmt := range e.preamble {
		res, err := conn.ExecContext(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("preamble %q: %w", stmt, err)
		}
		affected, _ := res.RowsAffected()
		results = append(results, &result.Raw{
			Rows:     []map[string]any{},
			Fields:   []result.Field{},
			RowCount: int(affected),
			Command:  commandTag(stmt),
		})
	}

	e.logger.Debug("executing statement", slog.String("statement", statement))
	raw, err := e.query(ctx, conn, statement)
	if err != nil {
		return nil, err
	}
	return append(results, raw), nil
}

func (e *SQL) query(ctx context.Context, conn *sql.Conn, statement string) (*result.Raw, error) {
	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading column types: %w", err)
	}

	fields := make([]result.Field, len(types))
	decode := make([]bool, len(types))
	for i, ct := range types {
		fields[i] = result.Field{Name: ct.Name()}
		decode[i] = agtypeColumn(ct.DatabaseTypeName(), e.agtype)
	}

	out := []map[string]any{}
	for rows.Next() {
		cells := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(types))
		for i, f := range fields {
			row[f.Name] = e.cell(cells[i], decode[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &result.Raw{
		Rows:     out,
		Fields:   fields,
		RowCount: len(out),
		Command:  commandTag(statement),
	}, nil
}

// cell converts a scanned value. Text is decoded as agtype when the column is
// agtype or the text carries a vertex, edge or path annotation; text that
// fails to decode is kept as is.
func (e *SQL) cell(v any, agtype bool) any {
	var text string
	switch x := v.(type) {
	case []byte:
		text = string(x)
	case string:
		text = x
	default:
		return v
	}

	if !agtype && !entity.IsAgtypeComposite(text) {
		return text
	}
	decoded, err := entity.ParseAgtype(text)
	if err != nil {
		e.logger.Debug("keeping undecodable agtype text", slog.String("error", err.Error()))
		return text
	}
	return decoded
}

// agtypeColumn reports whether cells of a column typed typeName are decoded
// as agtype. Drivers report unregistered types by OID or not at all.
func agtypeColumn(typeName string, forced bool) bool {
	if strings.EqualFold(typeName, "agtype") {
		return true
	}
	if !forced {
		return false
	}
	if typeName == "" {
		return true
	}
	_, err := strconv.ParseUint(typeName, 10, 32)
	return err == nil
}

// commandTag returns the upper-cased leading keyword of stmt.
func commandTag(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
