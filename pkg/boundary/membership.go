package boundary

// ValidateOrganizationMembership confirms a membership record belongs to the
// claimed user and organization. Existence is checked before the identity
// fields, so a nil membership never reaches the comparisons. On success the
// membership is returned as Data.
func ValidateOrganizationMembership(m *Membership, expectedOrgID, userID string) MembershipResult {
	if m == nil {
		return MembershipResult{Result: Result{
			Error: "User is not a member of this organization",
			Code:  CodeNotFound,
		}}
	}
	if m.UserID != userID {
		return MembershipResult{Result: Result{
			Error: "Invalid membership: user ID mismatch",
			Code:  CodeForbidden,
		}}
	}
	if m.OrganizationID != expectedOrgID {
		return MembershipResult{Result: Result{
			Error: "Invalid membership: organization mismatch",
			Code:  CodeForbidden,
		}}
	}
	return MembershipResult{Result: Result{Valid: true}, Data: m}
}
