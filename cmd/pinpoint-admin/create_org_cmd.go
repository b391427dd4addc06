package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

type createOrgOptions struct {
	Name       string
	Subdomain  string
	AdminEmail string
}

func newCreateOrgCmd() *cobra.Command {
	var opts createOrgOptions

	cmd := &cobra.Command{
		Use:   "create-org --name <name> --subdomain <subdomain> --admin-email <email>",
		Short: "Create an organization owned by an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Name) == "" {
				return errors.New("--name is required")
			}
			if strings.TrimSpace(opts.Subdomain) == "" {
				return errors.New("--subdomain is required")
			}
			if strings.TrimSpace(opts.AdminEmail) == "" {
				return errors.New("--admin-email is required")
			}

			ctx, app, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			owner, err := corepersistence.NewUserRepository().GetByEmail(ctx, opts.AdminEmail)
			if err != nil {
				return err
			}
			ctx = composables.WithUser(ctx, owner)

			orgService := app.Service(services.OrganizationService{}).(*services.OrganizationService)
			org, err := orgService.Create(ctx, opts.Name, opts.Subdomain)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created organization %s (subdomain %s)\n", org.ID(), org.Subdomain())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "organization display name")
	cmd.Flags().StringVar(&opts.Subdomain, "subdomain", "", "subdomain the organization answers on")
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "email of the user who becomes the first admin")

	return cmd
}
