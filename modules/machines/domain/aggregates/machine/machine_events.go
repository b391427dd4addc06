package machine

import (
	"context"
)

func NewCreatedEvent(_ context.Context, data Machine) *CreatedEvent {
	return &CreatedEvent{Data: data}
}

func NewMovedEvent(_ context.Context, data Machine, fromLocationID string) *MovedEvent {
	return &MovedEvent{Data: data, FromLocationID: fromLocationID}
}

func NewUpdatedEvent(_ context.Context, data Machine) *UpdatedEvent {
	return &UpdatedEvent{Data: data}
}

func NewDeletedEvent(_ context.Context, data Machine) *DeletedEvent {
	return &DeletedEvent{Data: data}
}

type CreatedEvent struct {
	Data Machine
}

type MovedEvent struct {
	Data           Machine
	FromLocationID string
}

type UpdatedEvent struct {
	Data Machine
}

type DeletedEvent struct {
	Data Machine
}
