package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// WhereClause renders " WHERE a AND b" or "" for no clauses.
func WhereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(clauses)
}

// SortSpec is a resolved, whitelisted ordering.
type SortSpec struct {
	Key  string // client-facing key
	Expr string // SQL expression the key maps to
	Desc bool
}

// SortWhitelist maps client-facing sort keys to SQL expressions.
type SortWhitelist struct {
	Columns  map[string]string
	Default  SortSpec
	TieBreak string // appended to every ORDER BY for a stable order
}

// Resolve parses a client sort key ("field" or "-field"). Keys outside the
// whitelist fall back to the default order.
func (w SortWhitelist) Resolve(key string) SortSpec {
	key = strings.TrimSpace(key)
	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")

	expr, ok := w.Columns[field]
	if !ok || field == "" {
		return w.Default
	}
	return SortSpec{Key: field, Expr: expr, Desc: desc}
}

// OrderBy renders the ORDER BY clause for s. NULLs sort last in both
// directions.
func (w SortWhitelist) OrderBy(s SortSpec) string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s NULLS LAST", s.Expr, dir)
	if w.TieBreak != "" && w.TieBreak != s.Expr {
		clause += fmt.Sprintf(", %s %s", w.TieBreak, dir)
	}
	return clause
}

// EscapeLike escapes ILIKE wildcards in user input.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// Placeholder tracks positional arguments for dynamic queries.
type Placeholder struct {
	Args []any
}

// Add appends v and returns its "$n" placeholder.
func (p *Placeholder) Add(v any) string {
	p.Args = append(p.Args, v)
	return fmt.Sprintf("$%d", len(p.Args))
}
