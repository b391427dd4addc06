package issue

// Outbox topics for the issue lifecycle. The notifications module subscribes
// to these through the relay dispatcher.
const (
	TopicCreated       = "issues.created"
	TopicStatusChanged = "issues.status_changed"
	TopicAssigned      = "issues.assigned"
	TopicCommented     = "issues.commented"
)

// EventPayload is the wire body of every issue lifecycle message. It carries
// everyone a notification could address, captured at write time, so the
// consumer never reads back into this module.
type EventPayload struct {
	IssueID        string `json:"issue_id"`
	OrganizationID string `json:"organization_id"`
	MachineID      string `json:"machine_id"`
	MachineOwnerID string `json:"machine_owner_id,omitempty"`
	Title          string `json:"title"`
	StatusName     string `json:"status_name,omitempty"`
	ReporterID     string `json:"reporter_id,omitempty"`
	AssigneeID     string `json:"assignee_id,omitempty"`
	ActorID        string `json:"actor_id,omitempty"`
	CommentID      string `json:"comment_id,omitempty"`
}
