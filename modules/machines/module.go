package machines

import (
	"embed"

	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/presentation/controllers"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
)

//go:embed infrastructure/persistence/schema/machines-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	modelRepo := persistence.NewModelRepository()
	locationRepo := persistence.NewLocationRepository()
	machineRepo := persistence.NewMachineRepository()

	userRepo := corepersistence.NewUserRepository()
	membershipRepo := corepersistence.NewMembershipRepository(userRepo)
	orgRepo := corepersistence.NewOrganizationRepository()

	app.RegisterServices(
		services.NewModelService(modelRepo),
		services.NewLocationService(locationRepo, machineRepo),
		services.NewMachineService(
			machineRepo,
			modelRepo,
			locationRepo,
			membershipRepo,
			orgRepo,
			app.EventPublisher(),
		),
	)

	app.RegisterControllers(
		controllers.NewModelsController(app),
		controllers.NewLocationsController(app),
		controllers.NewMachinesController(app),
		controllers.NewQRController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "machines"
}
