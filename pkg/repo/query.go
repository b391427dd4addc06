package repo

import (
	"fmt"
	"sort"
	"strings"
)

// Join concatenates non-empty SQL fragments with single spaces.
func Join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}

// JoinWhere builds a WHERE clause from conditions, or returns "" when empty.
func JoinWhere(conditions ...string) string {
	nonEmpty := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if strings.TrimSpace(c) != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(nonEmpty, " AND ")
}

// FormatLimitOffset renders LIMIT/OFFSET, omitting zero values.
func FormatLimitOffset(limit, offset int) string {
	if limit > 0 && offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	if limit > 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	if offset > 0 {
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}

// Insert builds an INSERT statement with positional placeholders for fields,
// optionally returning columns.
func Insert(table string, fields []string, returning ...string) string {
	placeholders := make([]string, len(fields))
	for i := range fields {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
	)
	if len(returning) > 0 {
		q += " RETURNING " + strings.Join(returning, ", ")
	}
	return q
}

// Update builds an UPDATE statement assigning fields to $1..$n; the caller
// appends WHERE placeholders starting at $n+1.
func Update(table string, fields []string, where string) string {
	assignments := make([]string, len(fields))
	for i, f := range fields {
		assignments[i] = fmt.Sprintf("%s = $%d", f, i+1)
	}
	q := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(assignments, ", "))
	if where != "" {
		q += " WHERE " + where
	}
	return q
}

// Exists wraps a base query into an EXISTS projection.
func Exists(base string) string {
	return fmt.Sprintf("SELECT EXISTS (%s)", base)
}

// BatchInsertQueryN expands an "INSERT INTO t (...) VALUES" prefix with one
// placeholder tuple per row and returns the flattened args.
func BatchInsertQueryN(prefix string, rows [][]interface{}) (string, []interface{}) {
	if len(rows) == 0 {
		return prefix, nil
	}
	width := len(rows[0])
	tuples := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*width)
	n := 1
	for _, row := range rows {
		ph := make([]string, len(row))
		for i, v := range row {
			ph[i] = fmt.Sprintf("$%d", n)
			args = append(args, v)
			n++
		}
		tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
	}
	return prefix + " " + strings.Join(tuples, ", "), args
}

// ScopeConditions translates a query-scope map (field name keys, e.g.
// "organizationId") into SQL conditions using the repository's field-to-column
// mapping. Keys are processed in sorted order so placeholder numbering is
// deterministic. Unknown fields are rejected rather than silently dropped.
func ScopeConditions(scope map[string]any, columns map[string]string, argOffset int) ([]string, []interface{}, error) {
	fields := make([]string, 0, len(scope))
	for f := range scope {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	conditions := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		col, ok := columns[f]
		if !ok {
			return nil, nil, fmt.Errorf("scope field %q has no column mapping", f)
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, argOffset+len(args)+1))
		args = append(args, scope[f])
	}
	return conditions, args, nil
}
