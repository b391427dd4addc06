package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

type exportIssuesOptions struct {
	OrgID  string
	Output string
}

func newExportIssuesCmd() *cobra.Command {
	var opts exportIssuesOptions

	cmd := &cobra.Command{
		Use:   "export-issues --org <uuid> [--output issues.xlsx]",
		Short: "Write an organization's issues to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.OrgID) == "" {
				return errors.New("--org is required")
			}

			ctx, app, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx = composables.WithOrgID(ctx, opts.OrgID)

			issueService := app.Service(services.IssueService{}).(*services.IssueService)
			workbook, err := issueService.Export(ctx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.Output, workbook, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(workbook), opts.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.OrgID, "org", "", "organization id to export")
	cmd.Flags().StringVar(&opts.Output, "output", "issues.xlsx", "output file path")

	return cmd
}
