// Package boundary decides whether an actor may touch an organization-scoped
// resource. Every check is a pure function over caller-supplied value shapes:
// no I/O, no shared state, fresh result values on every call. Services run
// these checks before issuing queries and feed the scope maps built here into
// the repository layer, which translates them into SQL filters.
package boundary

import "net/http"

// Code is the closed set of transport error codes a failed check can carry.
// Identifier-format failures carry no code; callers surface those as plain
// validation messages.
type Code string

const (
	CodeNotFound  Code = "NOT_FOUND"
	CodeForbidden Code = "FORBIDDEN"
)

// HTTPStatus maps a code onto the status a controller should answer with.
// The zero code maps to 400 so uncoded validation failures stay client errors.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// Result is the outcome of a non-throwing check. Valid is false exactly when
// Error is non-empty. Code is set only where a transport mapping exists.
type Result struct {
	Valid bool
	Error string
	Code  Code
}

// Err adapts the result into the error chain: nil for a valid result,
// otherwise an *Error carrying the full result for transport mapping.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Result: r}
}

// Error is a failed check travelling as an error. Transport layers recover
// the result with errors.As and map Code onto an HTTP status.
type Error struct {
	Result Result
}

func (e *Error) Error() string { return e.Result.Error }

// MembershipResult carries the validated membership back to the caller so it
// does not have to re-fetch the row it just validated.
type MembershipResult struct {
	Result
	Data *Membership
}

// AccessData is what a successful composite check hands back.
//
// CrossOrgAccess is a residual signal: by the time the composite check
// succeeds the membership comparison has already enforced equality, so the
// field is false on every success path. Callers must not assume it can become
// true.
type AccessData struct {
	Membership     *Membership
	CrossOrgAccess bool
}

// CompleteResult is the outcome of the composite boundary check.
type CompleteResult struct {
	Result
	Data *AccessData
}

// MemberUser is the user snapshot embedded in a membership.
type MemberUser struct {
	ID    string
	Name  string
	Email string
}

// MemberRole is the role snapshot embedded in a membership.
type MemberRole struct {
	ID   string
	Name string
}

// Membership links one user to one organization with a role. The validator
// never mutates or retains it.
type Membership struct {
	ID             string
	UserID         string
	OrganizationID string
	RoleID         string
	User           MemberUser
	Role           MemberRole
}

// OrgRef names the organization an entity belongs to, or marks the entity as
// global (shared across all organizations, such as a catalog model). The
// explicit variant replaces "field absent" so call sites state tenancy
// instead of implying it.
type OrgRef struct {
	id     string
	scoped bool
}

// GlobalOrg returns the reference for an entity that belongs to no
// organization.
func GlobalOrg() OrgRef { return OrgRef{} }

// OrgOf returns the reference for an entity owned by the given organization.
func OrgOf(id string) OrgRef { return OrgRef{id: id, scoped: true} }

// IsGlobal reports whether the entity is organization-less.
func (o OrgRef) IsGlobal() bool { return !o.scoped }

// ID returns the owning organization ID, or "" for a global reference.
func (o OrgRef) ID() string { return o.id }

// EntityRef is the minimal shape the generic ownership checks operate on.
type EntityRef struct {
	ID  string
	Org OrgRef
}

// RelatedEntity is one foreign-key reference attached to a record under
// validation, labeled for error messages.
type RelatedEntity struct {
	EntityID   string
	EntityType string
	Org        OrgRef
}

// PublicOrganization is the minimal organization context that must exist
// before an organization-scoped query may run.
type PublicOrganization struct {
	ID   string
	Name string
}
