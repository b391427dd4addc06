package issue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	i := issue.New("org-1", "machine-1", "status-1", "Left flipper dead")

	require.NotEmpty(t, i.ID())
	require.Equal(t, "org-1", i.OrganizationID())
	require.Equal(t, "machine-1", i.MachineID())
	require.Equal(t, "status-1", i.StatusID())
	require.Equal(t, issue.PriorityMedium, i.Priority())
	require.Equal(t, issue.SeverityMinor, i.Severity())
	require.Equal(t, issue.ConsistencyIntermittent, i.Consistency())
	require.Empty(t, i.ReporterID())
	require.Nil(t, i.ResolvedAt())
}

func TestChangeStatusResolutionStamp(t *testing.T) {
	t.Parallel()

	newStatus := status.New("org-1", "New", status.CategoryNew)
	fixed := status.New("org-1", "Fixed", status.CategoryResolved)
	wontFix := status.New("org-1", "Not to be Fixed", status.CategoryResolved)

	t.Run("entering a resolved status stamps the time", func(t *testing.T) {
		i := issue.New("org-1", "machine-1", newStatus.ID(), "Tilt bob too sensitive")
		i.ChangeStatus(fixed)

		require.Equal(t, fixed.ID(), i.StatusID())
		require.NotNil(t, i.ResolvedAt())
	})

	t.Run("the stamp survives moves between resolved statuses", func(t *testing.T) {
		i := issue.New("org-1", "machine-1", newStatus.ID(), "Tilt bob too sensitive")
		i.ChangeStatus(fixed)
		first := *i.ResolvedAt()

		i.ChangeStatus(wontFix)
		require.NotNil(t, i.ResolvedAt())
		require.Equal(t, first, *i.ResolvedAt())
	})

	t.Run("leaving the resolved category clears the stamp", func(t *testing.T) {
		i := issue.New("org-1", "machine-1", newStatus.ID(), "Tilt bob too sensitive")
		i.ChangeStatus(fixed)
		require.NotNil(t, i.ResolvedAt())

		i.ChangeStatus(newStatus)
		require.Nil(t, i.ResolvedAt())
	})

	t.Run("reopening and fixing again stamps a fresh time", func(t *testing.T) {
		i := issue.New("org-1", "machine-1", newStatus.ID(), "Tilt bob too sensitive")
		i.ChangeStatus(fixed)
		first := *i.ResolvedAt()

		i.ChangeStatus(newStatus)
		i.ChangeStatus(fixed)
		require.NotNil(t, i.ResolvedAt())
		require.False(t, i.ResolvedAt().Before(first))
	})
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	fixed := status.New("org-1", "Fixed", status.CategoryResolved)
	i := issue.New("org-1", "machine-1", "status-1", "Right sling dead",
		issue.WithDescription("No kick at all"),
		issue.WithPriority(issue.PriorityHigh),
		issue.WithAssigneeID("user-2"),
	)
	before := i.Snapshot()

	i.UpdateDetails("Right sling weak", "Kicks half strength", issue.PriorityLow, issue.SeverityCosmetic, issue.ConsistencyOnce)
	i.Unassign()
	i.ChangeStatus(fixed)
	require.NotEqual(t, before, i.Snapshot())

	original := status.New("org-1", "New", status.CategoryNew, status.WithID(before.StatusID))
	i.Restore(before, original)

	require.Equal(t, before, i.Snapshot())
	require.Equal(t, "Right sling dead", i.Title())
	require.Equal(t, issue.PriorityHigh, i.Priority())
	require.Equal(t, "user-2", i.AssigneeID())
	require.Nil(t, i.ResolvedAt())
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	require.True(t, issue.PriorityCritical.IsValid())
	require.False(t, issue.Priority("urgent").IsValid())
	require.True(t, issue.SeverityUnplayable.IsValid())
	require.False(t, issue.Severity("broken").IsValid())
	require.True(t, issue.ConsistencyAlways.IsValid())
	require.False(t, issue.Consistency("sometimes").IsValid())
}

func TestWithResolvedAtOption(t *testing.T) {
	t.Parallel()

	resolved := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	i := issue.New("org-1", "machine-1", "status-1", "Coil burnt",
		issue.WithResolvedAt(&resolved),
	)
	require.NotNil(t, i.ResolvedAt())
	require.Equal(t, resolved, *i.ResolvedAt())
}
