// Package stats provides the stats command.
package stats

import (
	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/internal/cmd/table"
)

// NewCommand creates the stats command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		GroupID: constants.GroupCore,
		Short:   "Show refinery counts by status and the impact percentage",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			stats := client.Stats()
			return output.Print(cmd.OutOrStdout(), globalFlags.OutputFormat(), table.StatsToTableData(stats), stats)
		},
	}
}
