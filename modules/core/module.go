package core

import (
	"embed"

	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/core/presentation/controllers"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/defaults"
)

//go:embed infrastructure/persistence/schema/core-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	userRepo := persistence.NewUserRepository()
	roleRepo := persistence.NewRoleRepository()
	orgRepo := persistence.NewOrganizationRepository()
	membershipRepo := persistence.NewMembershipRepository(userRepo)
	permRepo := persistence.NewPermissionRepository()
	invitationRepo := persistence.NewInvitationRepository()

	userService := services.NewUserService(userRepo, app.EventPublisher())

	app.RegisterServices(
		userService,
		services.NewSessionService(persistence.NewSessionRepository(), app.EventPublisher()),
		services.NewAuthService(app),
		services.NewOrganizationService(orgRepo, roleRepo, membershipRepo, defaults.AllPermissions(), app.EventPublisher()),
		services.NewMembershipService(membershipRepo, roleRepo, app.EventPublisher()),
		services.NewRoleService(roleRepo, permRepo, app.EventPublisher()),
		services.NewInvitationService(invitationRepo, roleRepo, membershipRepo, userService, app.EventPublisher()),
		services.NewExcelExportService(app.DB()),
	)

	app.RegisterControllers(
		controllers.NewHealthController(app),
		controllers.NewAuthController(app),
		controllers.NewOrganizationsController(app),
		controllers.NewMembersController(app),
		controllers.NewRolesController(app),
		controllers.NewInvitationsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
