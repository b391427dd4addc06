package boundary

// CrossOrganizationAccess frames an organization mismatch around the action
// being attempted, for call sites that want to tell the user what was denied
// rather than hide existence.
type CrossOrganizationAccess struct {
	UserOrganizationID     string
	ResourceOrganizationID string
	Action                 string
	ResourceType           string
}

// ValidateCrossOrganizationAccess denies any access where the acting
// organization and the resource's organization differ.
func ValidateCrossOrganizationAccess(in CrossOrganizationAccess) Result {
	if in.UserOrganizationID != in.ResourceOrganizationID {
		return Result{
			Error: "Cannot " + in.Action + " " + in.ResourceType + " from different organization",
			Code:  CodeForbidden,
		}
	}
	return Result{Valid: true}
}
