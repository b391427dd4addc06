package services

import (
	"encoding/json"
	"testing"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
)

func applyPatch(t *testing.T, patch json.RawMessage, doc issue.Snapshot) issue.Snapshot {
	t.Helper()
	decoded, err := jsonpatch.DecodePatch(patch)
	require.NoError(t, err)
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	patched, err := decoded.Apply(body)
	require.NoError(t, err)
	var out issue.Snapshot
	require.NoError(t, json.Unmarshal(patched, &out))
	return out
}

func TestSnapshotDiff(t *testing.T) {
	t.Parallel()

	resolved := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	before := issue.Snapshot{
		Title:       "Left flipper weak",
		Description: "Loses strength after a few minutes of play.",
		Priority:    "medium",
		Severity:    "major",
		Consistency: "always",
		StatusID:    "status-new",
	}
	after := before
	after.Title = "Left flipper coil failing"
	after.Priority = "high"
	after.StatusID = "status-fixed"
	after.ResolvedAt = &resolved

	t.Run("identical snapshots produce no patches", func(t *testing.T) {
		changes, rollback, err := snapshotDiff(before, before)
		require.NoError(t, err)
		require.Nil(t, changes)
		require.Nil(t, rollback)
	})

	t.Run("forward patch replays the change", func(t *testing.T) {
		changes, _, err := snapshotDiff(before, after)
		require.NoError(t, err)
		require.NotNil(t, changes)
		require.Equal(t, after, applyPatch(t, changes, before))
	})

	t.Run("rollback patch undoes the change", func(t *testing.T) {
		_, rollback, err := snapshotDiff(before, after)
		require.NoError(t, err)
		require.NotNil(t, rollback)
		require.Equal(t, before, applyPatch(t, rollback, after))
	})

	t.Run("untouched fields stay out of the patch", func(t *testing.T) {
		changes, _, err := snapshotDiff(before, after)
		require.NoError(t, err)
		require.NotContains(t, string(changes), "/description")
		require.NotContains(t, string(changes), "/severity")
	})
}
