package modules

import (
	"github.com/pinpoint-collective/pinpoint/modules/core"
	"github.com/pinpoint-collective/pinpoint/modules/issues"
	"github.com/pinpoint-collective/pinpoint/modules/machines"
	"github.com/pinpoint-collective/pinpoint/modules/notifications"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
)

// BuiltInModules is every module a stock server loads, in registration
// order. The order also fixes the migration sequence, so new modules go at
// the end.
var BuiltInModules = []application.Module{
	core.NewModule(),
	machines.NewModule(),
	issues.NewModule(),
	notifications.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
