package role

import (
	"context"
)

func NewCreatedEvent(_ context.Context, data *Role) *CreatedEvent {
	return &CreatedEvent{Data: data}
}

func NewUpdatedEvent(_ context.Context, data *Role) *UpdatedEvent {
	return &UpdatedEvent{Data: data}
}

func NewDeletedEvent(_ context.Context, data *Role) *DeletedEvent {
	return &DeletedEvent{Data: data}
}

type CreatedEvent struct {
	Data   *Role
	Result *Role
}

type UpdatedEvent struct {
	Data   *Role
	Result *Role
}

type DeletedEvent struct {
	Data *Role
}
