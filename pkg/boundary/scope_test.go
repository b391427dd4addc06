package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateOrganizationScope(t *testing.T) {
	t.Parallel()

	scope := CreateOrganizationScope("org-1")
	require.Equal(t, map[string]any{"organizationId": "org-1"}, scope)
}

func TestCreateOrganizationScopeWith(t *testing.T) {
	t.Parallel()

	t.Run("merges extra conditions", func(t *testing.T) {
		scope := CreateOrganizationScopeWith("org-1", map[string]any{"statusId": "st-1"})
		require.Equal(t, map[string]any{
			"statusId":       "st-1",
			"organizationId": "org-1",
		}, scope)
	})

	t.Run("expected organization wins over override", func(t *testing.T) {
		scope := CreateOrganizationScopeWith("org-1", map[string]any{
			"organizationId": "attacker-controlled",
		})
		require.Equal(t, "org-1", scope["organizationId"])
	})

	t.Run("nil extra", func(t *testing.T) {
		scope := CreateOrganizationScopeWith("org-1", nil)
		require.Equal(t, map[string]any{"organizationId": "org-1"}, scope)
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		extra := map[string]any{"organizationId": "attacker-controlled", "id": "e-1"}
		_ = CreateOrganizationScopeWith("org-1", extra)
		require.Equal(t, map[string]any{"organizationId": "attacker-controlled", "id": "e-1"}, extra)
	})
}

func TestCreateEntityQueries(t *testing.T) {
	t.Parallel()

	want := EntityQuery{Where: map[string]any{"id": "e-1", "organizationId": "org-1"}}

	require.Equal(t, want, CreateEntityQuery("e-1", "org-1"))
	require.Equal(t, want, CreateEntityUpdateQuery("e-1", "org-1"))
	require.Equal(t, want, CreateEntityDeleteQuery("e-1", "org-1"))
}
