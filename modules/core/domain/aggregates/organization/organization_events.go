package organization

import (
	"context"
)

func NewCreatedEvent(_ context.Context, data Organization) *CreatedEvent {
	return &CreatedEvent{Data: data}
}

func NewUpdatedEvent(_ context.Context, data Organization) *UpdatedEvent {
	return &UpdatedEvent{Data: data}
}

func NewDeactivatedEvent(_ context.Context, data Organization) *DeactivatedEvent {
	return &DeactivatedEvent{Data: data}
}

type CreatedEvent struct {
	Data   Organization
	Result Organization
}

type UpdatedEvent struct {
	Data   Organization
	Result Organization
}

type DeactivatedEvent struct {
	Data Organization
}
