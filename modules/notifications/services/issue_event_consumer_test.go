package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
)

func TestRecipientsOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload issue.EventPayload
		want    []string
	}{
		{
			name: "owner, assignee and reporter each get one",
			payload: issue.EventPayload{
				MachineOwnerID: "owner",
				AssigneeID:     "assignee",
				ReporterID:     "reporter",
				ActorID:        "someone-else",
			},
			want: []string{"owner", "assignee", "reporter"},
		},
		{
			name: "the actor never notifies themselves",
			payload: issue.EventPayload{
				MachineOwnerID: "owner",
				AssigneeID:     "assignee",
				ReporterID:     "reporter",
				ActorID:        "assignee",
			},
			want: []string{"owner", "reporter"},
		},
		{
			name: "one member in several roles gets one notification",
			payload: issue.EventPayload{
				MachineOwnerID: "owner",
				AssigneeID:     "owner",
				ReporterID:     "reporter",
			},
			want: []string{"owner", "reporter"},
		},
		{
			name: "empty roles are skipped",
			payload: issue.EventPayload{
				ReporterID: "reporter",
			},
			want: []string{"reporter"},
		},
		{
			name: "a self-reported solo issue addresses nobody",
			payload: issue.EventPayload{
				ReporterID: "reporter",
				ActorID:    "reporter",
			},
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, recipientsOf(tc.payload))
		})
	}
}

func TestMessageFor(t *testing.T) {
	t.Parallel()

	p := issue.EventPayload{
		Title:      "Right ramp reject",
		StatusName: "In Progress",
		AssigneeID: "assignee",
	}

	assert.Equal(t, `New issue reported: Right ramp reject`, messageFor(issue.TopicCreated, "owner", p))
	assert.Equal(t, `Issue "Right ramp reject" is now In Progress`, messageFor(issue.TopicStatusChanged, "owner", p))
	assert.Equal(t, `You were assigned issue "Right ramp reject"`, messageFor(issue.TopicAssigned, "assignee", p))
	assert.Equal(t, `Issue "Right ramp reject" was assigned`, messageFor(issue.TopicAssigned, "owner", p))
	assert.Equal(t, `New comment on issue "Right ramp reject"`, messageFor(issue.TopicCommented, "owner", p))
}
