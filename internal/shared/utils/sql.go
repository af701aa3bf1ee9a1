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

// Where accumulates filter clauses for a list query. Clauses use "?" for
// their arguments; Add rewrites them to numbered $n placeholders.
type Where struct {
	clauses []string
	args    []any
}

func (w *Where) Add(clause string, args ...any) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// Search adds an ILIKE match of term against any of columns.
func (w *Where) Search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	w.args = append(w.args, "%"+term+"%")
	placeholder := fmt.Sprintf("$%d", len(w.args))
	ors := make([]string, len(columns))
	for i, col := range columns {
		ors[i] = col + " ILIKE " + placeholder
	}
	w.clauses = append(w.clauses, "("+JoinWithOr(ors)+")")
}

// SQL returns " WHERE ..." or an empty string when no clause was added.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

func (w *Where) Args() []any {
	return w.args
}

// Next is the placeholder index the next argument will take.
func (w *Where) Next() int {
	return len(w.args) + 1
}
