package boundary

// ResourceOwnership asks whether a resource that claims to belong to
// ResourceOrganizationID may be touched by a caller acting inside
// ExpectedOrganizationID. ResourceType is the label used in error text.
type ResourceOwnership struct {
	ResourceID             string
	ResourceOrganizationID string
	ExpectedOrganizationID string
	ResourceType           string
}

// ValidateResourceOrganizationBoundary is the fundamental single-resource
// check. A wrong-organization resource produces the same "not found" wording
// as a nonexistent one, so a caller probing another organization learns
// nothing about what exists there.
func ValidateResourceOrganizationBoundary(in ResourceOwnership) Result {
	if in.ResourceOrganizationID == "" {
		return Result{Error: in.ResourceType + " organization ID is missing"}
	}
	if in.ResourceOrganizationID != in.ExpectedOrganizationID {
		return Result{
			Error: in.ResourceType + " not found or does not belong to this organization",
			Code:  CodeNotFound,
		}
	}
	return Result{Valid: true}
}

// ValidateIssueOrganizationBoundary checks an issue against the caller's
// organization.
func ValidateIssueOrganizationBoundary(resourceID, resourceOrgID, expectedOrgID string) Result {
	return ValidateResourceOrganizationBoundary(ResourceOwnership{
		ResourceID:             resourceID,
		ResourceOrganizationID: resourceOrgID,
		ExpectedOrganizationID: expectedOrgID,
		ResourceType:           "Issue",
	})
}

// ValidateMachineOrganizationBoundary checks a machine against the caller's
// organization. The "Game instance" label is kept as-is; downstream error-text
// matching depends on it.
func ValidateMachineOrganizationBoundary(resourceID, resourceOrgID, expectedOrgID string) Result {
	return ValidateResourceOrganizationBoundary(ResourceOwnership{
		ResourceID:             resourceID,
		ResourceOrganizationID: resourceOrgID,
		ExpectedOrganizationID: expectedOrgID,
		ResourceType:           "Game instance",
	})
}

// ValidateLocationOrganizationBoundary checks a location against the caller's
// organization.
func ValidateLocationOrganizationBoundary(resourceID, resourceOrgID, expectedOrgID string) Result {
	return ValidateResourceOrganizationBoundary(ResourceOwnership{
		ResourceID:             resourceID,
		ResourceOrganizationID: resourceOrgID,
		ExpectedOrganizationID: expectedOrgID,
		ResourceType:           "Location",
	})
}

// ValidateCommentOrganizationBoundary checks a comment against the caller's
// organization.
func ValidateCommentOrganizationBoundary(resourceID, resourceOrgID, expectedOrgID string) Result {
	return ValidateResourceOrganizationBoundary(ResourceOwnership{
		ResourceID:             resourceID,
		ResourceOrganizationID: resourceOrgID,
		ExpectedOrganizationID: expectedOrgID,
		ResourceType:           "Comment",
	})
}
