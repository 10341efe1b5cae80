// Package cypher rewrites Cypher queries into statements runnable by an
// Apache AGE backend.
package cypher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ColumnType is the type tag given to every output column of a wrapped query.
const ColumnType = "agtype"

// GenericColumn is the output column used when a query has no RETURN clause.
const GenericColumn = "result"

// Rewriter errors.
var (
	ErrMissingQuery    = errors.New("query not entered")
	ErrNoGraphSelected = errors.New("no graph selected, select a graph first")
)

var (
	// returnClause captures the projection list of the first RETURN clause.
	// It stops at ORDER, LIMIT, SKIP or the end of the text.
	returnClause = regexp.MustCompile(`(?is)\bRETURN\s+(.+?)(?:\s+ORDER\s+|\s+LIMIT\s+|\s+SKIP\s+|$)`)

	// explicitAlias matches a trailing "AS name".
	explicitAlias = regexp.MustCompile(`(?i)\s+AS\s+(\w+)\s*$`)

	// bareIdentifier matches a single unqualified variable such as n or path.
	bareIdentifier = regexp.MustCompile(`^\w+$`)
)

// Column is one item of a RETURN clause.
type Column struct {
	Expr  string `json:"expr"`
	Alias string `json:"alias,omitempty"`
	Name  string `json:"name"`
}

// Statement is a Cypher query wrapped for execution.
type Statement struct {
	Graph   string   `json:"graph"`
	Query   string   `json:"query"`
	Columns []Column `json:"columns"`
	SQL     string   `json:"sql"`
}

// Rewrite wraps query in the cypher() table function of the given graph.
//
// The query body is spliced into a dollar-quoted string without escaping, so a
// query containing "$$" will break out of the wrapper.
func Rewrite(query, graph string) (*Statement, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}
	if graph == "" {
		return nil, ErrNoGraphSelected
	}

	cols := ParseColumns(query)
	return &Statement{
		Graph:   graph,
		Query:   query,
		Columns: cols,
		SQL:     Wrap(graph, query, ColumnDefs(cols)),
	}, nil
}

// Wrap builds the SELECT statement around a Cypher query.
func Wrap(graph, query, columnDefs string) string {
	return fmt.Sprintf("SELECT * FROM cypher('%s', $$ %s $$) AS (%s)", graph, query, columnDefs)
}

// ParseColumns returns the output columns of the first RETURN clause in query.
// Returns nil if the query has no RETURN clause.
func ParseColumns(query string) []Column {
	m := returnClause.FindStringSubmatch(query)
	if m == nil {
		return nil
	}

	items := SplitTopLevel(strings.TrimSpace(m[1]))
	cols := make([]Column, 0, len(items))
	for i, item := range items {
		cols = append(cols, DeriveName(item, i))
	}
	return cols
}

// DeriveName names the column for one projection expression at position idx.
func DeriveName(expr string, idx int) Column {
	trimmed := strings.TrimSpace(expr)
	col := Column{Expr: trimmed}

	if m := explicitAlias.FindStringSubmatch(trimmed); m != nil {
		col.Alias = m[1]
		col.Expr = strings.TrimSpace(trimmed[:len(trimmed)-len(m[0])])
		col.Name = m[1]
		return col
	}
	if bareIdentifier.MatchString(trimmed) {
		col.Name = trimmed
		return col
	}
	col.Name = fmt.Sprintf("col%d", idx)
	return col
}

// ColumnDefs renders the AS (...) column list for cols.
// An empty list yields the single generic column.
func ColumnDefs(cols []Column) string {
	if len(cols) == 0 {
		return GenericColumn + " " + ColumnType
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c.Name + " " + ColumnType
	}
	return strings.Join(defs, ", ")
}

// SplitTopLevel splits a projection list on commas that are not nested inside
// parentheses, brackets, braces or string literals.
func SplitTopLevel(clause string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	var quote rune

	for _, ch := range clause {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			current.WriteRune(ch)
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			current.WriteRune(ch)
		case ch == '(' || ch == '[' || ch == '{':
			depth++
			current.WriteRune(ch)
		case ch == ')' || ch == ']' || ch == '}':
			if depth > 0 {
				depth--
			}
			current.WriteRune(ch)
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 || len(parts) > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}
