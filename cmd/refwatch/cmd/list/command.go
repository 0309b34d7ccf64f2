// Package list provides the read-only listing commands.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
)

// NewCommand creates the list command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [resource]",
		GroupID: constants.GroupCore,
		Short:   "List published refineries and pipelines",
		Long: `List displays the published data.

Available subcommands:
  refineries  - Tracked refineries and their status
  pipelines   - Major oil and gas pipelines`,
		Example: `  refwatch list refineries                 # List all refineries
  refwatch list refineries ryazan          # Show one refinery
  refwatch list pipelines --status destroyed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown resource: %s", args[0])
		},
	}

	cmd.AddCommand(NewRefineriesCommand(app))
	cmd.AddCommand(NewPipelinesCommand(app))

	return cmd
}
