package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCrossOrganizationAccess(t *testing.T) {
	t.Parallel()

	t.Run("same organization allowed", func(t *testing.T) {
		res := ValidateCrossOrganizationAccess(CrossOrganizationAccess{
			UserOrganizationID:     "org-1",
			ResourceOrganizationID: "org-1",
			Action:                 "update",
			ResourceType:           "Issue",
		})
		require.True(t, res.Valid)
	})

	t.Run("different organization denied with action text", func(t *testing.T) {
		res := ValidateCrossOrganizationAccess(CrossOrganizationAccess{
			UserOrganizationID:     "org-1",
			ResourceOrganizationID: "org-2",
			Action:                 "delete",
			ResourceType:           "Issue",
		})
		require.False(t, res.Valid)
		require.Equal(t, "Cannot delete Issue from different organization", res.Error)
		require.Equal(t, CodeForbidden, res.Code)
	})

	t.Run("labels flow into the message", func(t *testing.T) {
		res := ValidateCrossOrganizationAccess(CrossOrganizationAccess{
			UserOrganizationID:     "org-1",
			ResourceOrganizationID: "org-2",
			Action:                 "assign",
			ResourceType:           "Game instance",
		})
		require.Equal(t, "Cannot assign Game instance from different organization", res.Error)
	})
}
