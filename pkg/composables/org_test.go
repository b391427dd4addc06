package composables

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
)

func TestUseOrgID(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		_, err := UseOrgID(context.Background())
		require.ErrorIs(t, err, ErrNoOrgID)
	})

	t.Run("empty string is missing", func(t *testing.T) {
		ctx := WithOrgID(context.Background(), "")
		_, err := UseOrgID(ctx)
		require.ErrorIs(t, err, ErrNoOrgID)
	})

	t.Run("present", func(t *testing.T) {
		ctx := WithOrgID(context.Background(), "org-1")
		orgID, err := UseOrgID(ctx)
		require.NoError(t, err)
		require.Equal(t, "org-1", orgID)
	})
}

func TestUseMembership(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		_, err := UseMembership(context.Background())
		require.ErrorIs(t, err, ErrNoMembership)
		require.Nil(t, TryUseMembership(context.Background()))
	})

	t.Run("present", func(t *testing.T) {
		m := &boundary.Membership{ID: "mem-1", UserID: "u-1", OrganizationID: "org-1"}
		ctx := WithMembership(context.Background(), m)

		got, err := UseMembership(ctx)
		require.NoError(t, err)
		require.Same(t, m, got)
		require.Same(t, m, TryUseMembership(ctx))
	})
}
