package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateResourceOrganizationBoundary(t *testing.T) {
	t.Parallel()

	t.Run("same organization is valid", func(t *testing.T) {
		res := ValidateResourceOrganizationBoundary(ResourceOwnership{
			ResourceID:             "res-1",
			ResourceOrganizationID: "org-1",
			ExpectedOrganizationID: "org-1",
			ResourceType:           "Issue",
		})
		require.True(t, res.Valid)
		require.Empty(t, res.Error)
		require.Empty(t, res.Code)
	})

	t.Run("different organization is not found", func(t *testing.T) {
		res := ValidateResourceOrganizationBoundary(ResourceOwnership{
			ResourceID:             "res-1",
			ResourceOrganizationID: "org-1",
			ExpectedOrganizationID: "org-2",
			ResourceType:           "Issue",
		})
		require.False(t, res.Valid)
		require.Equal(t, "Issue not found or does not belong to this organization", res.Error)
		require.Equal(t, CodeNotFound, res.Code)
	})

	t.Run("missing resource organization", func(t *testing.T) {
		res := ValidateResourceOrganizationBoundary(ResourceOwnership{
			ResourceID:             "res-1",
			ResourceOrganizationID: "",
			ExpectedOrganizationID: "org-1",
			ResourceType:           "Location",
		})
		require.False(t, res.Valid)
		require.Equal(t, "Location organization ID is missing", res.Error)
		require.Empty(t, res.Code)
	})

	// The error text must not vary with which foreign organization owns the
	// resource, otherwise a caller could probe for existence.
	t.Run("wrong organization is indistinguishable from nonexistent", func(t *testing.T) {
		probeA := ValidateResourceOrganizationBoundary(ResourceOwnership{
			ResourceID:             "res-1",
			ResourceOrganizationID: "org-2",
			ExpectedOrganizationID: "org-1",
			ResourceType:           "Issue",
		})
		probeB := ValidateResourceOrganizationBoundary(ResourceOwnership{
			ResourceID:             "res-1",
			ResourceOrganizationID: "org-3",
			ExpectedOrganizationID: "org-1",
			ResourceType:           "Issue",
		})
		require.Equal(t, probeA, probeB)
	})
}

func TestResourceTypeWrappers(t *testing.T) {
	t.Parallel()

	t.Run("issue same org", func(t *testing.T) {
		res := ValidateIssueOrganizationBoundary("issue-1", "org-1", "org-1")
		require.True(t, res.Valid)
	})

	t.Run("issue cross org", func(t *testing.T) {
		res := ValidateIssueOrganizationBoundary("issue-1", "org-2", "org-1")
		require.False(t, res.Valid)
		require.Equal(t, "Issue not found or does not belong to this organization", res.Error)
	})

	t.Run("machine label reads Game instance", func(t *testing.T) {
		res := ValidateMachineOrganizationBoundary("machine-1", "org-2", "org-1")
		require.False(t, res.Valid)
		require.Equal(t, "Game instance not found or does not belong to this organization", res.Error)

		missing := ValidateMachineOrganizationBoundary("machine-1", "", "org-1")
		require.Equal(t, "Game instance organization ID is missing", missing.Error)
	})

	t.Run("location label", func(t *testing.T) {
		res := ValidateLocationOrganizationBoundary("loc-1", "org-2", "org-1")
		require.Equal(t, "Location not found or does not belong to this organization", res.Error)
	})

	t.Run("comment label", func(t *testing.T) {
		res := ValidateCommentOrganizationBoundary("comment-1", "org-2", "org-1")
		require.Equal(t, "Comment not found or does not belong to this organization", res.Error)
	})
}
