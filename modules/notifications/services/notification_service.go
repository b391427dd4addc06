package services

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/modules/notifications/domain/entities/notification"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

// ListParams narrows the current user's notification feed. The user itself
// always comes from the session, never from the request.
type ListParams struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationService struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) findParams(ctx context.Context, params *ListParams) (*notification.FindParams, error) {
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return &notification.FindParams{
		UserID:     currentUser.ID(),
		UnreadOnly: params.UnreadOnly,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, nil
}

// GetPaginated returns the current user's notifications, newest first.
func (s *NotificationService) GetPaginated(ctx context.Context, params *ListParams) ([]*notification.Notification, error) {
	if err := authorizeNotifications(ctx, "list"); err != nil {
		return nil, err
	}
	findParams, err := s.findParams(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, findParams)
}

func (s *NotificationService) Count(ctx context.Context, params *ListParams) (int64, error) {
	if err := authorizeNotifications(ctx, "list"); err != nil {
		return 0, err
	}
	findParams, err := s.findParams(ctx, params)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, findParams)
}

// CountUnread backs the badge in the page header.
func (s *NotificationService) CountUnread(ctx context.Context) (int64, error) {
	if err := authorizeNotifications(ctx, "list"); err != nil {
		return 0, err
	}
	findParams, err := s.findParams(ctx, &ListParams{UnreadOnly: true})
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, findParams)
}

// MarkRead stamps one notification read. Notifications are personal:
// another member's notification reads as not found, same as a foreign
// organization's.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*notification.Notification, error) {
	if err := authorizeNotifications(ctx, "update"); err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated *notification.Notification
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		n, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if n.UserID() != currentUser.ID() {
			return persistence.ErrNotificationNotFound
		}
		if err := s.repo.MarkRead(txCtx, id); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkAllRead stamps every unread notification of the current user and
// reports how many it touched.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	if err := authorizeNotifications(ctx, "update"); err != nil {
		return 0, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return 0, err
	}

	var updated int64
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		updated, err = s.repo.MarkAllRead(txCtx, currentUser.ID())
		return err
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
