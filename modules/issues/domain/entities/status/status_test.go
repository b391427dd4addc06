package status_test

import (
	"testing"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
)

func TestCategoryIsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []status.Category{status.CategoryNew, status.CategoryInProgress, status.CategoryResolved} {
		if !c.IsValid() {
			t.Errorf("%q should be a valid category", c)
		}
	}
	if status.Category("CLOSED").IsValid() {
		t.Error("unknown category should not validate")
	}
	if status.Category("resolved").IsValid() {
		t.Error("categories are case sensitive")
	}
}

func TestMutators(t *testing.T) {
	t.Parallel()

	st := status.New("org-1", "New", status.CategoryNew, status.WithSortOrder(1))
	if st.IsDefault() {
		t.Error("a status is not default unless marked")
	}

	st.MarkDefault()
	if !st.IsDefault() {
		t.Error("MarkDefault should set the flag")
	}

	st.Rename("Incoming")
	st.SetCategory(status.CategoryInProgress)
	st.SetSortOrder(7)
	if st.Name() != "Incoming" || st.Category() != status.CategoryInProgress || st.SortOrder() != 7 {
		t.Errorf("mutators did not apply: %q %q %d", st.Name(), st.Category(), st.SortOrder())
	}
}
