package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/domain/entities/notification"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/outbox"
)

// IssueEventConsumer turns issue lifecycle messages into per-member
// notification rows. It sits on the relay dispatch path, so a returned
// error makes the relay retry the message later.
type IssueEventConsumer struct {
	pool *pgxpool.Pool
	repo notification.Repository
}

func NewIssueEventConsumer(pool *pgxpool.Pool, repo notification.Repository) *IssueEventConsumer {
	return &IssueEventConsumer{
		pool: pool,
		repo: repo,
	}
}

func (c *IssueEventConsumer) Handle(meta *outbox.Meta, topic string, payload json.RawMessage) error {
	switch topic {
	case issue.TopicCreated, issue.TopicStatusChanged, issue.TopicAssigned, issue.TopicCommented:
	default:
		return nil
	}

	var p issue.EventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return errors.Wrap(err, "decode issue event payload")
	}

	recipients := recipientsOf(p)
	if len(recipients) == 0 {
		return nil
	}

	ctx := composables.WithPool(context.Background(), c.pool)
	ctx = composables.WithOrgID(ctx, meta.OrganizationID)

	return composables.InOrgTx(ctx, func(txCtx context.Context) error {
		for _, userID := range recipients {
			n := notification.New(
				meta.OrganizationID,
				userID,
				topic,
				p.IssueID,
				p.Title,
				messageFor(topic, userID, p),
			)
			if _, err := c.repo.Create(txCtx, n); err != nil {
				return errors.Wrap(err, "create notification")
			}
		}
		return nil
	})
}

// recipientsOf addresses the machine owner, the assignee and the reporter,
// once each, and never the member who performed the action.
func recipientsOf(p issue.EventPayload) []string {
	seen := make(map[string]struct{}, 3)
	recipients := make([]string, 0, 3)
	for _, userID := range []string{p.MachineOwnerID, p.AssigneeID, p.ReporterID} {
		if userID == "" || userID == p.ActorID {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		recipients = append(recipients, userID)
	}
	return recipients
}

func messageFor(topic, recipientID string, p issue.EventPayload) string {
	switch topic {
	case issue.TopicCreated:
		return fmt.Sprintf("New issue reported: %s", p.Title)
	case issue.TopicStatusChanged:
		return fmt.Sprintf("Issue %q is now %s", p.Title, p.StatusName)
	case issue.TopicAssigned:
		if recipientID == p.AssigneeID {
			return fmt.Sprintf("You were assigned issue %q", p.Title)
		}
		return fmt.Sprintf("Issue %q was assigned", p.Title)
	case issue.TopicCommented:
		return fmt.Sprintf("New comment on issue %q", p.Title)
	}
	return p.Title
}
