package issues

import (
	"context"
	"embed"

	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	coreservices "github.com/pinpoint-collective/pinpoint/modules/core/services"
	machinespersistence "github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/issues/presentation/controllers"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
	"github.com/pinpoint-collective/pinpoint/pkg/outbox"
)

//go:embed infrastructure/persistence/schema/issues-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	statusRepo := persistence.NewStatusRepository()
	issueRepo := persistence.NewIssueRepository()
	commentRepo := persistence.NewCommentRepository()
	activityRepo := persistence.NewActivityRepository()

	machineRepo := machinespersistence.NewMachineRepository()
	userRepo := corepersistence.NewUserRepository()
	membershipRepo := corepersistence.NewMembershipRepository(userRepo)
	orgRepo := corepersistence.NewOrganizationRepository()

	publisher := outbox.NewPublisher()
	statusService := services.NewStatusService(statusRepo, issueRepo)

	app.RegisterServices(
		statusService,
		services.NewIssueService(
			issueRepo,
			statusRepo,
			activityRepo,
			machineRepo,
			membershipRepo,
			orgRepo,
			coreservices.NewExcelExportService(app.DB()),
			publisher,
		),
		services.NewCommentService(commentRepo, issueRepo, publisher),
	)

	app.RegisterControllers(
		controllers.NewStatusesController(app),
		controllers.NewIssuesController(app),
		controllers.NewCommentsController(app),
		controllers.NewQRReportController(app),
	)

	// Every new organization starts with the stock status workflow.
	app.EventPublisher().Subscribe(func(event *organization.CreatedEvent) {
		ctx := composables.WithPool(context.Background(), app.DB())
		ctx = composables.WithOrgID(ctx, event.Result.ID())
		if err := statusService.SeedStock(ctx); err != nil {
			configuration.Use().Logger().
				WithError(err).
				WithField("organization_id", event.Result.ID()).
				Error("failed to seed stock statuses")
		}
	})

	return nil
}

func (m *Module) Name() string {
	return "issues"
}
