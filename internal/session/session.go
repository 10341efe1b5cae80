// Package session ties query rewriting, execution, conversion and styling
// together for one selected graph.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/matsen/agviewer/internal/cypher"
	"github.com/matsen/agviewer/internal/entity"
	"github.com/matsen/agviewer/internal/result"
	"github.com/matsen/agviewer/internal/style"
	"github.com/matsen/agviewer/internal/viz"
)

// Executor runs a statement and returns one raw result per executed
// statement. Only the last result is meaningful.
type Executor interface {
	Execute(ctx context.Context, statement string) ([]*result.Raw, error)
}

// Recorder stores executed queries.
type Recorder interface {
	RecordQuery(ctx context.Context, entry HistoryEntry) error
}

// HistoryEntry describes one execution.
type HistoryEntry struct {
	Graph      string
	Query      string
	Statement  string
	RowCount   int
	Error      string
	ExecutedAt time.Time
}

// ExecutionError wraps a failure reported by the executor.
type ExecutionError struct {
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing query: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Service is the query API for one session.
type Service struct {
	mu       sync.RWMutex
	graph    string
	exec     Executor
	styles   *style.Registry
	builder  *viz.Builder
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithGraph selects the initial graph.
func WithGraph(graph string) Option {
	return func(s *Service) {
		s.graph = graph
	}
}

// WithRegistry sets the style registry. Defaults to an unseeded registry.
func WithRegistry(r *style.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.styles = r
		}
	}
}

// WithRecorder records every execution.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service that runs statements on exec.
func New(exec Executor, opts ...Option) *Service {
	s := &Service{
		exec:   exec,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.styles == nil {
		s.styles = style.NewRegistry()
	}
	s.builder = viz.NewBuilder(s.styles)
	return s
}

// SelectGraph sets the graph that queries run against.
func (s *Service) SelectGraph(graph string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = graph
}

// CurrentGraph returns the selected graph, or "" when none is selected.
func (s *Service) CurrentGraph() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Styles returns the session's style registry.
func (s *Service) Styles() *style.Registry {
	return s.styles
}

// Rewrite wraps query for the selected graph without executing it.
func (s *Service) Rewrite(query string) (*cypher.Statement, error) {
	return cypher.Rewrite(query, s.CurrentGraph())
}

// Execute rewrites query for the selected graph, runs it, and normalizes the
// result. Nothing is executed when the query is empty or no graph is selected.
func (s *Service) Execute(ctx context.Context, query string) (*result.Normalized, error) {
	stmt, err := s.Rewrite(query)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, query, stmt.SQL)
}

// ExecuteSQL runs a statement as is and normalizes the result.
func (s *Service) ExecuteSQL(ctx context.Context, statement string) (*result.Normalized, error) {
	return s.run(ctx, "", statement)
}

func (s *Service) run(ctx context.Context, query, statement string) (*result.Normalized, error) {
	s.logger.Debug("executing", slog.String("graph", s.CurrentGraph()), slog.String("statement", statement))

	raw, err := s.exec.Execute(ctx, statement)
	if err != nil {
		s.logger.Warn("execution failed", slog.String("error", err.Error()))
		s.record(ctx, query, statement, 0, err)
		return nil, &ExecutionError{Statement: statement, Err: err}
	}

	n, err := result.Normalize(raw)
	if err != nil {
		s.record(ctx, query, statement, 0, err)
		return nil, err
	}
	s.record(ctx, query, statement, n.RowCount, nil)
	return n, nil
}

// record stores an execution. Recording failures are logged and otherwise
// ignored.
func (s *Service) record(ctx context.Context, query, statement string, rowCount int, execErr error) {
	if s.recorder == nil {
		return
	}
	entry := HistoryEntry{
		Graph:      s.CurrentGraph(),
		Query:      query,
		Statement:  statement,
		RowCount:   rowCount,
		ExecutedAt: s.now().UTC(),
	}
	if execErr != nil {
		entry.Error = execErr.Error()
	}
	if err := s.recorder.RecordQuery(ctx, entry); err != nil {
		s.logger.Warn("recording query failed", slog.String("error", err.Error()))
	}
}

// Rows converts a normalized result into typed rows.
func (s *Service) Rows(n *result.Normalized) []entity.Row {
	return entity.ConvertRows(n)
}

// ToElements builds the legend and elements for rows.
func (s *Service) ToElements(rows []entity.Row, maxRows int, isNew bool) *viz.Graph {
	return s.builder.ToElements(rows, maxRows, isNew)
}

// ToMetadataElements builds the label-level graph for metadata records.
func (s *Service) ToMetadataElements(records []viz.MetaRecord) *viz.Graph {
	return s.builder.ToMetadataElements(records)
}

// SetLabelColor assigns label to the palette slot whose color matches st.
// It reports whether a slot matched.
func (s *Service) SetLabelColor(kind style.Kind, label string, st style.LabelStyle) bool {
	return s.styles.SetColor(kind, label, st)
}

// SetLabelSize assigns label to the size bucket equal to size.
// It reports whether a bucket matched.
func (s *Service) SetLabelSize(kind style.Kind, label string, size int) bool {
	return s.styles.SetSize(kind, label, size)
}

// SetLabelCaption sets the caption property shown for label.
func (s *Service) SetLabelCaption(kind style.Kind, label, caption string) {
	s.styles.SetCaption(kind, label, caption)
}
