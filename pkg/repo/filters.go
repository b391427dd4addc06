package repo

import (
	"fmt"
	"strings"
)

// Filter renders a single comparison against a column. String receives the
// resolved column name and the 1-based index of the first placeholder the
// filter may use; Value returns the arguments in placeholder order.
type Filter interface {
	String(column string, argIdx int) string
	Value() []interface{}
}

type comparison struct {
	op    string
	value interface{}
}

func (c comparison) String(column string, argIdx int) string {
	return fmt.Sprintf("%s %s $%d", column, c.op, argIdx)
}

func (c comparison) Value() []interface{} {
	return []interface{}{c.value}
}

func Eq(value interface{}) Filter  { return comparison{op: "=", value: value} }
func NotEq(value interface{}) Filter { return comparison{op: "<>", value: value} }
func Gt(value interface{}) Filter  { return comparison{op: ">", value: value} }
func Gte(value interface{}) Filter { return comparison{op: ">=", value: value} }
func Lt(value interface{}) Filter  { return comparison{op: "<", value: value} }
func Lte(value interface{}) Filter { return comparison{op: "<=", value: value} }

// ILike matches case-insensitively; the caller supplies any wildcards.
func ILike(value string) Filter { return comparison{op: "ILIKE", value: value} }

type inFilter struct {
	values []interface{}
}

func (f inFilter) String(column string, argIdx int) string {
	if len(f.values) == 0 {
		return "FALSE"
	}
	placeholders := make([]string, len(f.values))
	for i := range f.values {
		placeholders[i] = fmt.Sprintf("$%d", argIdx+i)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", "))
}

func (f inFilter) Value() []interface{} {
	return f.values
}

// In matches any of the given values. An empty list matches nothing rather
// than everything.
func In[T any](values []T) Filter {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return inFilter{values: out}
}

type nullFilter struct {
	isNull bool
}

func (f nullFilter) String(column string, _ int) string {
	if f.isNull {
		return column + " IS NULL"
	}
	return column + " IS NOT NULL"
}

func (f nullFilter) Value() []interface{} { return nil }

func IsNull() Filter    { return nullFilter{isNull: true} }
func IsNotNull() Filter { return nullFilter{isNull: false} }

// SortByField pairs a domain field with a direction.
type SortByField[T comparable] struct {
	Field     T
	Ascending bool
}

// SortBy is an ordered list of sort fields resolved through the repository's
// field-to-column mapping.
type SortBy[T comparable] struct {
	Fields []SortByField[T]
}

func Asc[T comparable](field T) SortByField[T]  { return SortByField[T]{Field: field, Ascending: true} }
func Desc[T comparable](field T) SortByField[T] { return SortByField[T]{Field: field, Ascending: false} }

// ToSQL renders an ORDER BY clause, skipping fields without a column
// mapping. An empty sort renders as "".
func (s SortBy[T]) ToSQL(mapping map[T]string) string {
	if len(s.Fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		column, ok := mapping[f.Field]
		if !ok {
			continue
		}
		if f.Ascending {
			parts = append(parts, column+" ASC")
		} else {
			parts = append(parts, column+" DESC")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
