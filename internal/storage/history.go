package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matsen/agviewer/internal/session"
)

// timestampLayout is fixed width so executed_at sorts as text in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryRecord is a stored execution.
type HistoryRecord struct {
	ID         string    `json:"id"`
	Graph      string    `json:"graph"`
	Query      string    `json:"query,omitempty"`
	Statement  string    `json:"statement"`
	RowCount   int       `json:"row_count"`
	Error      string    `json:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// RecordQuery stores one execution under a fresh ID.
func (d *DB) RecordQuery(ctx context.Context, e session.HistoryEntry) error {
	rec := HistoryRecord{
		ID:         uuid.NewString(),
		Graph:      e.Graph,
		Query:      e.Query,
		Statement:  e.Statement,
		RowCount:   e.RowCount,
		Error:      e.Error,
		ExecutedAt: e.ExecutedAt,
	}
	return d.insertHistory(ctx, rec)
}

func (d *DB) insertHistory(ctx context.Context, rec HistoryRecord) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO query_history (id, graph, query, statement, row_count, error, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.Graph,
		nullableString(rec.Query),
		rec.Statement, rec.RowCount,
		nullableString(rec.Error),
		rec.ExecutedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting history %s: %w", rec.ID, err)
	}
	return nil
}

// ListHistory returns the most recent executions first. limit <= 0 returns all.
func (d *DB) ListHistory(ctx context.Context, limit int) ([]HistoryRecord, error) {
	query := `
		SELECT id, graph, query, statement, row_count, error, executed_at
		FROM query_history
		ORDER BY executed_at DESC, id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var q, errText sql.NullString
		var executedAt string
		if err := rows.Scan(&rec.ID, &rec.Graph, &q, &rec.Statement, &rec.RowCount, &errText, &executedAt); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		rec.Query = q.String
		rec.Error = errText.String
		if rec.ExecutedAt, err = time.Parse(time.RFC3339Nano, executedAt); err != nil {
			return nil, fmt.Errorf("parsing executed_at for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ImportHistory inserts records that are not stored yet and returns how many
// were added.
func (d *DB) ImportHistory(ctx context.Context, records []HistoryRecord) (int, error) {
	added := 0
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		res, err := d.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO query_history (id, graph, query, statement, row_count, error, executed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID, rec.Graph,
			nullableString(rec.Query),
			rec.Statement, rec.RowCount,
			nullableString(rec.Error),
			rec.ExecutedAt.UTC().Format(timestampLayout),
		)
		if err != nil {
			return added, fmt.Errorf("importing history %s: %w", rec.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

// ClearHistory deletes all stored executions.
func (d *DB) ClearHistory(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM query_history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
