package composables

import (
	"context"
	"errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/session"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
)

var (
	ErrNoUserFound    = errors.New("no user found in context")
	ErrNoSessionFound = errors.New("no session found in context")
)

// WithUser returns a new context carrying the authenticated user.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

// UseUser returns the authenticated user attached by the authorize
// middleware.
func UseUser(ctx context.Context) (user.User, error) {
	u, ok := ctx.Value(constants.UserKey).(user.User)
	if !ok || u == nil {
		return nil, ErrNoUserFound
	}
	return u, nil
}

// WithSession returns a new context carrying the authenticated session.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, constants.SessionKey, s)
}

// UseSession returns the authenticated session attached by the authorize
// middleware.
func UseSession(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(constants.SessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, ErrNoSessionFound
	}
	return s, nil
}
