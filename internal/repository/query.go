package repository

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates positional Postgres conditions for list queries.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition whose single %d verb is replaced by the next placeholder index.
func (w *whereBuilder) add(expr string, value interface{}) {
	w.args = append(w.args, value)
	w.conditions = append(w.conditions, fmt.Sprintf(expr, len(w.args)))
}

// search matches term case-insensitively against any of the columns.
func (w *whereBuilder) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	w.args = append(w.args, "%"+term+"%")
	idx := len(w.args)
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, idx)
	}
	w.conditions = append(w.conditions, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// orderClause whitelists the sort column and direction.
func orderClause(sortBy, sortOrder, fallback string, allowed ...string) string {
	column := fallback
	for _, candidate := range allowed {
		if candidate == sortBy {
			column = sortBy
			break
		}
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, order)
}

// pageClause clamps paging input and returns the LIMIT/OFFSET suffix.
func pageClause(page, size int) string {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", size, (page-1)*size)
}
