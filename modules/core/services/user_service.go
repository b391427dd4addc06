package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

var usersAuthzObject = authz.ObjectName("core", "users")

var ErrEmailTaken = errors.New("email address already registered")

func authorizeUsers(ctx context.Context, action string) error {
	return authorizeCore(ctx, usersAuthzObject, action)
}

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

func (s *UserService) GetByID(ctx context.Context, id string) (user.User, error) {
	if err := authorizeUsers(ctx, "view"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	if err := authorizeUsers(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

// Register creates an account without a policy check; sign-up and invitation
// acceptance are open endpoints.
func (s *UserService) Register(ctx context.Context, data user.User) (user.User, error) {
	createdEvent := user.NewCreatedEvent(ctx, data)

	var createdUser user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		taken, err := s.repo.EmailTaken(txCtx, data.Email().Value())
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		created, err := s.repo.Create(txCtx, data)
		if err != nil {
			return err
		}
		createdUser = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	createdEvent.Result = createdUser

	s.publisher.Publish(createdEvent)
	return createdUser, nil
}

func (s *UserService) Create(ctx context.Context, data user.User) (user.User, error) {
	if err := authorizeUsers(ctx, "create"); err != nil {
		return nil, err
	}
	return s.Register(ctx, data)
}

func (s *UserService) Update(ctx context.Context, data user.User) (user.User, error) {
	if err := authorizeUsers(ctx, "update"); err != nil {
		return nil, err
	}

	updatedEvent := user.NewUpdatedEvent(ctx, data)

	var updatedUser user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, data.ID())
		if err != nil {
			return err
		}
		if current.Email().Value() != data.Email().Value() {
			taken, err := s.repo.EmailTaken(txCtx, data.Email().Value())
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailTaken
			}
		}
		if err := s.repo.Update(txCtx, data); err != nil {
			return err
		}
		userAfterUpdate, err := s.repo.GetByID(txCtx, data.ID())
		if err != nil {
			return err
		}
		updatedUser = userAfterUpdate
		return nil
	})
	if err != nil {
		return nil, err
	}
	updatedEvent.Result = updatedUser

	s.publisher.Publish(updatedEvent)
	return updatedUser, nil
}

func (s *UserService) UpdateLastAction(ctx context.Context, id string) error {
	return s.repo.UpdateLastAction(ctx, id)
}

func (s *UserService) UpdateLastLogin(ctx context.Context, id string) error {
	return s.repo.UpdateLastLogin(ctx, id)
}
