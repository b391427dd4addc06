package boundary

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ValidateRouterEntityOwnership checks a fetched entity at the router edge:
// absent entities are NOT_FOUND (optionally with a custom message), entities
// owned elsewhere are FORBIDDEN. A global reference counts as owned elsewhere
// here; only ValidateRelatedEntitiesOwnership exempts globals.
func ValidateRouterEntityOwnership(e *EntityRef, expectedOrgID, label string, notFoundMsg ...string) Result {
	if e == nil {
		msg := label + " not found"
		if len(notFoundMsg) > 0 && notFoundMsg[0] != "" {
			msg = notFoundMsg[0]
		}
		return Result{Error: msg, Code: CodeNotFound}
	}
	if e.Org.IsGlobal() || e.Org.ID() != expectedOrgID {
		return Result{
			Error: "Access denied: " + label + " belongs to different organization",
			Code:  CodeForbidden,
		}
	}
	return Result{Valid: true}
}

// ValidateEntityExistsAndOwned is the error-returning twin of
// ValidateRouterEntityOwnership for call sites that propagate instead of
// branching. The error text equals the Result.Error the core check yields.
func ValidateEntityExistsAndOwned(e *EntityRef, expectedOrgID, label string) (*EntityRef, error) {
	if res := ValidateRouterEntityOwnership(e, expectedOrgID, label); !res.Valid {
		return nil, errors.New(res.Error)
	}
	return e, nil
}

// ValidatePublicOrganizationContext requires an organization context to exist
// before an organization-scoped query may run.
func ValidatePublicOrganizationContext(org *PublicOrganization) Result {
	if org == nil {
		return Result{Error: "Organization not found", Code: CodeNotFound}
	}
	return Result{Valid: true}
}

// ValidatePublicOrganizationContextRequired is the error-returning twin of
// ValidatePublicOrganizationContext.
func ValidatePublicOrganizationContextRequired(org *PublicOrganization) (*PublicOrganization, error) {
	if res := ValidatePublicOrganizationContext(org); !res.Valid {
		return nil, errors.New(res.Error)
	}
	return org, nil
}

// ValidateRelatedEntitiesOwnership checks a heterogeneous set of foreign-key
// references before a write. Global references are skipped entirely. The
// first mismatch in slice order is the one reported.
func ValidateRelatedEntitiesOwnership(entities []RelatedEntity, expectedOrgID string) Result {
	for _, e := range entities {
		if e.Org.IsGlobal() {
			continue
		}
		if e.Org.ID() != expectedOrgID {
			return Result{
				Error: "Access denied: " + e.EntityType + " belongs to different organization",
				Code:  CodeForbidden,
			}
		}
	}
	return Result{Valid: true}
}

// ValidateMultipleEntityOwnership checks a homogeneous batch, such as
// bulk-update targets, reporting the first null or mismatched entry by index.
// Global references count as mismatches.
func ValidateMultipleEntityOwnership(entities []*EntityRef, expectedOrgID, label string) Result {
	for i, e := range entities {
		if e == nil {
			return Result{
				Error: fmt.Sprintf("%s at index %d not found", label, i),
				Code:  CodeNotFound,
			}
		}
		if e.Org.IsGlobal() || e.Org.ID() != expectedOrgID {
			return Result{
				Error: fmt.Sprintf("Access denied: %s at index %d belongs to different organization", label, i),
				Code:  CodeForbidden,
			}
		}
	}
	return Result{Valid: true}
}
