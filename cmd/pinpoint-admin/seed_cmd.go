package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	coreseed "github.com/pinpoint-collective/pinpoint/modules/core/seed"
	issuesseed "github.com/pinpoint-collective/pinpoint/modules/issues/seed"
	machinesseed "github.com/pinpoint-collective/pinpoint/modules/machines/seed"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/defaults"
)

type seedOptions struct {
	AdminEmail    string
	AdminPassword string
	CatalogPath   string
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed --admin-password <password>",
		Short: "Provision the default organization, admin user and stock data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin, err := adminUser(opts.AdminEmail, opts.AdminPassword)
			if err != nil {
				return err
			}

			ctx, app, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := app.Migrations().Run(); err != nil {
				return err
			}

			seeder := application.NewSeeder()
			seeder.Register(
				coreseed.PermissionSeedFunc(defaults.AllPermissions()),
				coreseed.OrganizationSeedFunc(defaults.AllPermissions()),
				coreseed.UserSeedFunc(admin),
				coreseed.SyncAuthzGrants,
				issuesseed.StatusSeedFunc(),
				machinesseed.CatalogSeedFunc(opts.CatalogPath),
			)
			return seeder.Seed(ctx, app)
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@pinpoint.local", "admin user email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "admin user password")
	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "config/catalog/models.toml", "machine catalog TOML to import")

	return cmd
}

func adminUser(email, password string) (user.User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("--admin-password is required")
	}
	parsedEmail, err := internet.NewEmail(email)
	if err != nil {
		return nil, err
	}
	admin := user.New("PinPoint", "Admin", parsedEmail, user.UILanguageEN)
	return admin.SetPassword(password)
}
