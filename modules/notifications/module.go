package notifications

import (
	"embed"

	"github.com/pinpoint-collective/pinpoint/modules/notifications/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/presentation/controllers"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
)

//go:embed infrastructure/persistence/schema/notifications-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	notificationRepo := persistence.NewNotificationRepository()

	app.RegisterServices(
		services.NewNotificationService(notificationRepo),
	)

	app.RegisterControllers(
		controllers.NewNotificationsController(app),
	)

	// The relay dispatcher publishes outbox messages on the event bus;
	// this consumer fans them out into per-member rows.
	consumer := services.NewIssueEventConsumer(app.DB(), notificationRepo)
	app.EventPublisher().Subscribe(consumer.Handle)

	return nil
}

func (m *Module) Name() string {
	return "notifications"
}
