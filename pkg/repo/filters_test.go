package repo_test

import (
	"testing"

	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

func TestComparisonFilters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		filter repo.Filter
		column string
		argIdx int
		want   string
		values int
	}{
		{name: "eq", filter: repo.Eq("open"), column: "i.status", argIdx: 1, want: "i.status = $1", values: 1},
		{name: "not eq", filter: repo.NotEq("resolved"), column: "i.status", argIdx: 3, want: "i.status <> $3", values: 1},
		{name: "gt", filter: repo.Gt(5), column: "m.play_count", argIdx: 2, want: "m.play_count > $2", values: 1},
		{name: "ilike", filter: repo.ILike("%tilt%"), column: "i.title", argIdx: 4, want: "i.title ILIKE $4", values: 1},
		{name: "in", filter: repo.In([]string{"open", "acknowledged"}), column: "i.status", argIdx: 2, want: "i.status IN ($2, $3)", values: 2},
		{name: "in empty", filter: repo.In([]string{}), column: "i.status", argIdx: 1, want: "FALSE", values: 0},
		{name: "is null", filter: repo.IsNull(), column: "i.assignee_id", argIdx: 9, want: "i.assignee_id IS NULL", values: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.filter.String(tc.column, tc.argIdx)
			if got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
			if len(tc.filter.Value()) != tc.values {
				t.Errorf("Value() returned %d args, want %d", len(tc.filter.Value()), tc.values)
			}
		})
	}
}

func TestSortByToSQL(t *testing.T) {
	t.Parallel()

	type field int
	const (
		title field = iota
		createdAt
		unmapped
	)
	mapping := map[field]string{
		title:     "i.title",
		createdAt: "i.created_at",
	}

	sort := repo.SortBy[field]{Fields: []repo.SortByField[field]{repo.Desc(createdAt), repo.Asc(title)}}
	if got, want := sort.ToSQL(mapping), "ORDER BY i.created_at DESC, i.title ASC"; got != want {
		t.Errorf("ToSQL() = %q, want %q", got, want)
	}

	empty := repo.SortBy[field]{}
	if got := empty.ToSQL(mapping); got != "" {
		t.Errorf("ToSQL() on empty sort = %q, want empty", got)
	}

	skipped := repo.SortBy[field]{Fields: []repo.SortByField[field]{repo.Asc(unmapped)}}
	if got := skipped.ToSQL(mapping); got != "" {
		t.Errorf("ToSQL() with only unmapped fields = %q, want empty", got)
	}
}
