package seed

import (
	"context"

	coreseed "github.com/pinpoint-collective/pinpoint/modules/core/seed"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

// StatusSeedFunc provisions the stock status workflow for the default
// organization. Organizations created later get theirs through the
// organization-created event.
func StatusSeedFunc() application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		statusService := services.NewStatusService(
			persistence.NewStatusRepository(),
			persistence.NewIssueRepository(),
		)
		return statusService.SeedStock(
			composables.WithOrgID(ctx, coreseed.DefaultOrganizationID),
		)
	}
}
