package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRouterEntityOwnership(t *testing.T) {
	t.Parallel()

	t.Run("nil entity", func(t *testing.T) {
		res := ValidateRouterEntityOwnership(nil, "org-1", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "Issue not found", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("nil entity with custom message", func(t *testing.T) {
		res := ValidateRouterEntityOwnership(nil, "org-1", "Issue", "No such issue in this collective")
		require.Equal(t, "No such issue in this collective", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("empty custom message falls back to default", func(t *testing.T) {
		res := ValidateRouterEntityOwnership(nil, "org-1", "Issue", "")
		require.Equal(t, "Issue not found", res.Error)
	})

	t.Run("different organization", func(t *testing.T) {
		e := &EntityRef{ID: "e-1", Org: OrgOf("org-2")}
		res := ValidateRouterEntityOwnership(e, "org-1", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "Access denied: Issue belongs to different organization", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})

	t.Run("global reference is not owned", func(t *testing.T) {
		e := &EntityRef{ID: "e-1", Org: GlobalOrg()}
		res := ValidateRouterEntityOwnership(e, "org-1", "Model")
		require.False(t, res.Valid)
		require.Equal(t, CodeForbidden, res.Code)
	})

	t.Run("owned entity", func(t *testing.T) {
		e := &EntityRef{ID: "e-1", Org: OrgOf("org-1")}
		res := ValidateRouterEntityOwnership(e, "org-1", "Issue")
		require.True(t, res.Valid)
	})
}

func TestValidateEntityExistsAndOwned(t *testing.T) {
	t.Parallel()

	t.Run("passes owned entity through", func(t *testing.T) {
		e := &EntityRef{ID: "e-1", Org: OrgOf("org-1")}
		got, err := ValidateEntityExistsAndOwned(e, "org-1", "Machine")
		require.NoError(t, err)
		require.Same(t, e, got)
	})

	t.Run("nil entity", func(t *testing.T) {
		got, err := ValidateEntityExistsAndOwned(nil, "org-1", "Machine")
		require.Nil(t, got)
		require.EqualError(t, err, "Machine not found")
	})

	t.Run("foreign entity", func(t *testing.T) {
		e := &EntityRef{ID: "e-1", Org: OrgOf("org-2")}
		got, err := ValidateEntityExistsAndOwned(e, "org-1", "Machine")
		require.Nil(t, got)
		require.EqualError(t, err, "Access denied: Machine belongs to different organization")
	})
}

func TestValidatePublicOrganizationContext(t *testing.T) {
	t.Parallel()

	t.Run("nil organization", func(t *testing.T) {
		res := ValidatePublicOrganizationContext(nil)
		require.False(t, res.Valid)
		require.Equal(t, "Organization not found", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("present organization", func(t *testing.T) {
		res := ValidatePublicOrganizationContext(&PublicOrganization{ID: "org-1", Name: "Pinside East"})
		require.True(t, res.Valid)
	})

	t.Run("required twin passes through", func(t *testing.T) {
		org := &PublicOrganization{ID: "org-1", Name: "Pinside East"}
		got, err := ValidatePublicOrganizationContextRequired(org)
		require.NoError(t, err)
		require.Same(t, org, got)
	})

	t.Run("required twin fails with same message", func(t *testing.T) {
		got, err := ValidatePublicOrganizationContextRequired(nil)
		require.Nil(t, got)
		require.EqualError(t, err, "Organization not found")
	})
}

func TestValidateRelatedEntitiesOwnership(t *testing.T) {
	t.Parallel()

	t.Run("empty batch", func(t *testing.T) {
		res := ValidateRelatedEntitiesOwnership(nil, "org-1")
		require.True(t, res.Valid)
	})

	t.Run("global references are skipped", func(t *testing.T) {
		entities := []RelatedEntity{
			{EntityID: "m-1", EntityType: "Model", Org: GlobalOrg()},
			{EntityID: "m-2", EntityType: "Model", Org: GlobalOrg()},
		}
		require.True(t, ValidateRelatedEntitiesOwnership(entities, "org-1").Valid)
		require.True(t, ValidateRelatedEntitiesOwnership(entities, "org-999").Valid)
	})

	t.Run("mixed batch with matching scoped entity", func(t *testing.T) {
		entities := []RelatedEntity{
			{EntityID: "m1", EntityType: "Model", Org: GlobalOrg()},
			{EntityID: "l1", EntityType: "Location", Org: OrgOf("org-1")},
		}
		res := ValidateRelatedEntitiesOwnership(entities, "org-1")
		require.True(t, res.Valid)
	})

	t.Run("first mismatch in order is reported", func(t *testing.T) {
		entities := []RelatedEntity{
			{EntityID: "m-1", EntityType: "Model", Org: GlobalOrg()},
			{EntityID: "l-1", EntityType: "Location", Org: OrgOf("org-2")},
			{EntityID: "s-1", EntityType: "Status", Org: OrgOf("org-3")},
		}
		res := ValidateRelatedEntitiesOwnership(entities, "org-1")
		require.False(t, res.Valid)
		require.Equal(t, "Access denied: Location belongs to different organization", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})
}

func TestValidateMultipleEntityOwnership(t *testing.T) {
	t.Parallel()

	t.Run("empty batch", func(t *testing.T) {
		res := ValidateMultipleEntityOwnership(nil, "org-1", "Machine")
		require.True(t, res.Valid)
	})

	t.Run("all owned", func(t *testing.T) {
		entities := []*EntityRef{
			{ID: "e-1", Org: OrgOf("org-1")},
			{ID: "e-2", Org: OrgOf("org-1")},
		}
		res := ValidateMultipleEntityOwnership(entities, "org-1", "Machine")
		require.True(t, res.Valid)
	})

	t.Run("null entry reported by index", func(t *testing.T) {
		entities := []*EntityRef{
			{ID: "e1", Org: OrgOf("org-1")},
			nil,
		}
		res := ValidateMultipleEntityOwnership(entities, "org-1", "Machine")
		require.False(t, res.Valid)
		require.Equal(t, "Machine at index 1 not found", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("mismatch reported by index", func(t *testing.T) {
		entities := []*EntityRef{
			{ID: "e-1", Org: OrgOf("org-1")},
			{ID: "e-2", Org: OrgOf("org-2")},
		}
		res := ValidateMultipleEntityOwnership(entities, "org-1", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "Access denied: Issue at index 1 belongs to different organization", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})

	// Only the first offender is reported even when later entries also fail.
	t.Run("first offender wins", func(t *testing.T) {
		entities := []*EntityRef{
			nil,
			{ID: "e-2", Org: OrgOf("org-2")},
			nil,
		}
		res := ValidateMultipleEntityOwnership(entities, "org-1", "Machine")
		require.Equal(t, "Machine at index 0 not found", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("global reference counts as mismatch", func(t *testing.T) {
		entities := []*EntityRef{{ID: "e-1", Org: GlobalOrg()}}
		res := ValidateMultipleEntityOwnership(entities, "org-1", "Machine")
		require.False(t, res.Valid)
		require.Equal(t, "Access denied: Machine at index 0 belongs to different organization", res.Error)
	})
}
