package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCompleteOrganizationBoundary(t *testing.T) {
	t.Parallel()

	validMembership := func() *Membership {
		return &Membership{ID: "mem-1", UserID: "u-100", OrganizationID: "org-100"}
	}

	t.Run("success", func(t *testing.T) {
		m := validMembership()
		res := ValidateCompleteOrganizationBoundary("res-1", "org-100", m, "u-100", "org-100", "Issue")
		require.True(t, res.Valid)
		require.NotNil(t, res.Data)
		require.Same(t, m, res.Data.Membership)
		require.False(t, res.Data.CrossOrgAccess)
	})

	// A bad organization ID must win over every later failure, nil membership
	// included.
	t.Run("organization id failure reported first", func(t *testing.T) {
		res := ValidateCompleteOrganizationBoundary("res-1", "org-100", nil, "u-100", "ab", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "Organization ID must be at least 3 characters", res.Error)
		require.Nil(t, res.Data)
	})

	t.Run("user id checked second", func(t *testing.T) {
		res := ValidateCompleteOrganizationBoundary("res-1", "org-999", nil, "", "org-100", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "User ID is required", res.Error)
	})

	t.Run("resource boundary checked third", func(t *testing.T) {
		res := ValidateCompleteOrganizationBoundary("res-1", "org-999", nil, "u-100", "org-100", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "Issue not found or does not belong to this organization", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("membership checked last", func(t *testing.T) {
		res := ValidateCompleteOrganizationBoundary("res-1", "org-100", nil, "u-100", "org-100", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "User is not a member of this organization", res.Error)
	})

	t.Run("membership user mismatch surfaces", func(t *testing.T) {
		m := &Membership{ID: "mem-1", UserID: "u-200", OrganizationID: "org-100"}
		res := ValidateCompleteOrganizationBoundary("res-1", "org-100", m, "u-100", "org-100", "Issue")
		require.False(t, res.Valid)
		require.Equal(t, "Invalid membership: user ID mismatch", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})
}
