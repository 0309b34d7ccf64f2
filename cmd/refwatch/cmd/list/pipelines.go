package list

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/internal/cmd/table"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// NewPipelinesCommand creates the list pipelines subcommand.
func NewPipelinesCommand(app application.Application) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:     "pipelines",
		Short:   "List pipelines",
		Aliases: []string{"pipeline", "p"},
		Args:    cobra.NoArgs,
		Example: `  refwatch list pipelines
  refwatch list pipelines --status suspended,destroyed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}

			filter := make([]refineries.PipelineStatus, 0, len(statuses))
			for _, s := range statuses {
				ps := refineries.PipelineStatus(strings.ToLower(strings.TrimSpace(s)))
				if !ps.Valid() {
					return errors.NewValidationError("status", s, "unknown pipeline status")
				}
				filter = append(filter, ps)
			}

			flags := globals.ParseListFlags(cmd)
			var pipelines []refineries.Pipeline
			for _, p := range client.Pipelines(filter...) {
				if flags.Matches(p.ID, p.Name) {
					pipelines = append(pipelines, p)
				}
			}
			pipelines = pipelines[:flags.Apply(len(pipelines))]

			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), globalFlags.OutputFormat(), table.PipelinesToTableData(pipelines), pipelines)
		},
	}

	globals.AddListFlags(cmd)
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (operational, suspended, destroyed)")

	return cmd
}
