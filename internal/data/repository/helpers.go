package repository

import (
	"fmt"
	"strings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// whereBuilder collects optional filter clauses with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func newWhere(base ...string) *whereBuilder {
	return &whereBuilder{clauses: base}
}

// add appends a clause containing a single "?" placeholder for value.
func (w *whereBuilder) add(clause string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the final args.
func (w *whereBuilder) page(limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
