package invitation

import (
	"context"
)

func NewCreatedEvent(_ context.Context, data *Invitation) *CreatedEvent {
	return &CreatedEvent{Data: data}
}

func NewAcceptedEvent(_ context.Context, data *Invitation) *AcceptedEvent {
	return &AcceptedEvent{Data: data}
}

func NewRevokedEvent(_ context.Context, data *Invitation) *RevokedEvent {
	return &RevokedEvent{Data: data}
}

type CreatedEvent struct {
	Data   *Invitation
	Result *Invitation
}

// AcceptedEvent fires after the invited user has been linked to the
// organization. UserID is the member the acceptance produced.
type AcceptedEvent struct {
	Data   *Invitation
	UserID string
}

type RevokedEvent struct {
	Data *Invitation
}
