package list

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/internal/cmd/table"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// NewRefineriesCommand creates the list refineries subcommand.
func NewRefineriesCommand(app application.Application) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "refineries [refinery-id]",
		Short:   "List refineries",
		Aliases: []string{"refinery", "r"},
		Args:    cobra.MaximumNArgs(1),
		Example: `  refwatch list refineries                  # List all refineries
  refwatch list refineries --status offline # Only offline refineries
  refwatch list refineries ryazan -o yaml   # Show one refinery as YAML`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRefinery(cmd, app, args[0])
			}
			return listRefineries(cmd, app, status, globals.ParseListFlags(cmd))
		},
	}

	globals.AddListFlags(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (operational, damaged, offline, unknown)")

	return cmd
}

func listRefineries(cmd *cobra.Command, app application.Application, status string, flags *globals.ListFlags) error {
	client, err := app.Client(cmd.Context())
	if err != nil {
		return err
	}

	var want refineries.Status
	if status != "" {
		want = refineries.ParseStatus(status)
		if !strings.EqualFold(string(want), strings.TrimSpace(status)) {
			return errors.NewValidationError("status", status, "unknown refinery status")
		}
	}

	all := client.Refineries()
	filtered := slices.DeleteFunc(all, func(r refineries.Refinery) bool {
		return (want != "" && r.Status != want) || !flags.Matches(r.ID, r.Name)
	})
	filtered = filtered[:flags.Apply(len(filtered))]

	globalFlags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}

	if !globalFlags.Quiet {
		app.Logger().Info().Msgf("Found %d refineries", len(filtered))
	}

	data := table.RefineriesToTableData(filtered, globalFlags.Format == constants.FormatWide)
	return output.Print(cmd.OutOrStdout(), globalFlags.OutputFormat(), data, filtered)
}

func showRefinery(cmd *cobra.Command, app application.Application, id string) error {
	client, err := app.Client(cmd.Context())
	if err != nil {
		return err
	}

	r, err := client.Refinery(id)
	if err != nil {
		return err
	}

	globalFlags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), globalFlags.OutputFormat(), table.RefineryDetails(r), r)
}
