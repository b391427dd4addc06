package seed

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
)

// PermissionSeedFunc upserts the permission catalog. It runs before the
// organization seed so role grants can reference catalog rows.
func PermissionSeedFunc(permissions []*permission.Permission) application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		return persistence.NewPermissionRepository().Save(ctx, permissions)
	}
}
