package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
)

func ApplyOrgRLS(ctx context.Context, tx pgx.Tx) error {
	if configuration.Use().RLSEnforce != "enforce" {
		return nil
	}
	orgID, err := UseOrgID(ctx)
	if err != nil {
		return fmt.Errorf("rls requires organization in context: %w", err)
	}
	_, err = tx.Exec(ctx, "SELECT set_config('app.current_org', $1, true)", orgID)
	if err != nil {
		return fmt.Errorf("failed to set rls organization context: %w", err)
	}
	return nil
}

// applyOrgRLSIfPresent sets the RLS variable when an organization is in
// context and skips silently otherwise. Transactions over global tables
// (users, sessions, catalog models) run without one; RLS policies then hide
// org-scoped rows instead of erroring.
func applyOrgRLSIfPresent(ctx context.Context, tx pgx.Tx) error {
	if _, err := UseOrgID(ctx); err != nil {
		return nil
	}
	return ApplyOrgRLS(ctx, tx)
}
