package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateOrganizationMembership(t *testing.T) {
	t.Parallel()

	t.Run("nil membership", func(t *testing.T) {
		res := ValidateOrganizationMembership(nil, "org-1", "u-1")
		require.False(t, res.Valid)
		require.Equal(t, "User is not a member of this organization", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
		require.Nil(t, res.Data)
	})

	t.Run("user mismatch", func(t *testing.T) {
		m := &Membership{ID: "mem-1", UserID: "u-2", OrganizationID: "org-1"}
		res := ValidateOrganizationMembership(m, "org-1", "u-1")
		require.False(t, res.Valid)
		require.Equal(t, "Invalid membership: user ID mismatch", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})

	t.Run("organization mismatch", func(t *testing.T) {
		m := &Membership{ID: "mem-1", UserID: "u-1", OrganizationID: "org-2"}
		res := ValidateOrganizationMembership(m, "org-1", "u-1")
		require.False(t, res.Valid)
		require.Equal(t, "Invalid membership: organization mismatch", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})

	// When both identity fields are wrong the user comparison is the one
	// reported; field checks run in a fixed order after the existence check.
	t.Run("user checked before organization", func(t *testing.T) {
		m := &Membership{ID: "mem-1", UserID: "u-2", OrganizationID: "org-2"}
		res := ValidateOrganizationMembership(m, "org-1", "u-1")
		require.Equal(t, "Invalid membership: user ID mismatch", res.Error)
	})

	t.Run("existence checked before fields", func(t *testing.T) {
		res := ValidateOrganizationMembership(nil, "", "")
		require.Equal(t, "User is not a member of this organization", res.Error)
	})

	t.Run("valid membership returned as data", func(t *testing.T) {
		m := &Membership{
			ID:             "mem-1",
			UserID:         "u-1",
			OrganizationID: "org-1",
			RoleID:         "role-1",
			User:           MemberUser{ID: "u-1", Name: "Alex", Email: "alex@example.com"},
			Role:           MemberRole{ID: "role-1", Name: "Technician"},
		}
		res := ValidateOrganizationMembership(m, "org-1", "u-1")
		require.True(t, res.Valid)
		require.Empty(t, res.Error)
		require.Same(t, m, res.Data)
	})
}
