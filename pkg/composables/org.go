package composables

import (
	"context"
	"errors"

	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
)

var (
	ErrNoOrgID      = errors.New("no organization ID found in context")
	ErrNoMembership = errors.New("no membership found in context")
)

// WithOrgID returns a new context carrying the active organization ID.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, constants.OrganizationIDKey, orgID)
}

// UseOrgID returns the active organization ID resolved by the middleware
// chain. Repositories and the RLS helper depend on it being present for every
// organization-scoped operation.
func UseOrgID(ctx context.Context) (string, error) {
	orgID, ok := ctx.Value(constants.OrganizationIDKey).(string)
	if !ok || orgID == "" {
		return "", ErrNoOrgID
	}
	return orgID, nil
}

// WithMembership returns a new context carrying the caller's membership in
// the active organization.
func WithMembership(ctx context.Context, m *boundary.Membership) context.Context {
	return context.WithValue(ctx, constants.MembershipKey, m)
}

// UseMembership returns the caller's membership in the active organization.
// Services pass it to the boundary validators; a missing membership is an
// error the caller maps to a not-a-member response.
func UseMembership(ctx context.Context) (*boundary.Membership, error) {
	m, ok := ctx.Value(constants.MembershipKey).(*boundary.Membership)
	if !ok || m == nil {
		return nil, ErrNoMembership
	}
	return m, nil
}

// TryUseMembership returns the membership when present without treating its
// absence as an error. Boundary validators accept nil and report it as
// not-a-member themselves.
func TryUseMembership(ctx context.Context) *boundary.Membership {
	m, _ := ctx.Value(constants.MembershipKey).(*boundary.Membership)
	return m
}
