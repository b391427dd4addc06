package user

import (
	"context"
)

func NewCreatedEvent(_ context.Context, data User) *CreatedEvent {
	return &CreatedEvent{Data: data}
}

func NewUpdatedEvent(_ context.Context, data User) *UpdatedEvent {
	return &UpdatedEvent{Data: data}
}

func NewDeletedEvent(_ context.Context) *DeletedEvent {
	return &DeletedEvent{}
}

type CreatedEvent struct {
	Data   User
	Result User
}

type UpdatedEvent struct {
	Data   User
	Result User
}

type DeletedEvent struct {
	Result User
}
