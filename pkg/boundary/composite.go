package boundary

// ValidateCompleteOrganizationBoundary is the single entry point for a
// mutating request: it runs the identifier, resource and membership checks in
// a fixed order and stops at the first failure. The order is part of the
// contract; an invalid organization ID is reported even when the membership
// is also missing.
func ValidateCompleteOrganizationBoundary(
	resourceID, resourceOrgID string,
	m *Membership,
	userID, expectedOrgID, resourceType string,
) CompleteResult {
	if res := ValidateOrganizationID(expectedOrgID); !res.Valid {
		return CompleteResult{Result: res}
	}
	if res := ValidateUserID(userID); !res.Valid {
		return CompleteResult{Result: res}
	}
	res := ValidateResourceOrganizationBoundary(ResourceOwnership{
		ResourceID:             resourceID,
		ResourceOrganizationID: resourceOrgID,
		ExpectedOrganizationID: expectedOrgID,
		ResourceType:           resourceType,
	})
	if !res.Valid {
		return CompleteResult{Result: res}
	}
	mres := ValidateOrganizationMembership(m, expectedOrgID, userID)
	if !mres.Valid {
		return CompleteResult{Result: mres.Result}
	}
	return CompleteResult{
		Result: Result{Valid: true},
		Data: &AccessData{
			Membership:     mres.Data,
			CrossOrgAccess: mres.Data.OrganizationID != expectedOrgID,
		},
	}
}
