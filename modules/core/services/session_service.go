package services

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/session"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

type SessionService struct {
	repo      session.Repository
	publisher eventbus.EventBus
}

func NewSessionService(repo session.Repository, publisher eventbus.EventBus) *SessionService {
	return &SessionService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *SessionService) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, composables.ErrSessionExpired
	}
	return sess, nil
}

func (s *SessionService) Create(ctx context.Context, data *session.CreateDTO) error {
	return s.repo.Create(ctx, data.ToEntity())
}

func (s *SessionService) Delete(ctx context.Context, token string) error {
	return s.repo.Delete(ctx, token)
}

// DeleteByUserID revokes every session of a user, for password changes and
// member removal.
func (s *SessionService) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteByUserID(ctx, userID)
}

// DeleteExpired garbage-collects stale sessions; wired to the admin CLI.
func (s *SessionService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
