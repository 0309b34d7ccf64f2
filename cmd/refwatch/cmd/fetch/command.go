// Package fetch provides the command that asks the intelligence source for
// suggested refinery updates.
package fetch

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/operator"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/internal/cmd/table"
	pkgconstants "github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/intel"
)

// NewCommand creates the fetch command.
func NewCommand(app application.Application) *cobra.Command {
	var timeout = pkgconstants.IntelTimeout

	cmd := &cobra.Command{
		Use:     "fetch",
		Aliases: []string{"intel"},
		GroupID: constants.GroupCore,
		Short:   "Fetch suggested updates from the intelligence source",
		Long: `Fetch asks the configured intelligence source (Gemini with web search)
to research every published refinery. The suggestions replace the pending
updates, so review them with 'refwatch staging' before publishing.

Requires an operator session and GEMINI_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, client, err := operator.Client(cmd, app, timeout)
			if err != nil {
				return err
			}
			defer cancel()

			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			report, err := client.FetchIntel(ctx)
			if errors.Is(err, errors.ErrNotConfigured) || errors.Is(err, errors.ErrInFlight) {
				return err
			}
			if err != nil {
				return fmt.Errorf("%s: %w", pkgconstants.IntelFailureMessage, err)
			}

			if !globalFlags.Quiet {
				app.Logger().Info().Int("updates", len(report.Updates)).Msg("Intelligence report applied to staging")
			}

			format := globalFlags.OutputFormat()
			if format != output.FormatTable && format != output.FormatWide {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "Maximum time to wait for the report")

	return cmd
}

// printReport writes the summary, the suggested updates and the cited
// sources.
func printReport(w io.Writer, report *intel.Report) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", report.Summary); err != nil {
		return err
	}

	data := table.Data{Headers: []string{"ID", "Status", "Last Incident", "Description"}}
	for _, u := range report.Updates {
		date := "-"
		if u.LastIncidentDate != nil && *u.LastIncidentDate != "" {
			date = *u.LastIncidentDate
		}
		data.Rows = append(data.Rows, []string{u.ID, table.StatusLabel(u.Status), date, u.Description})
	}
	if err := output.NewFormatter(output.FormatTable).Format(w, data); err != nil {
		return err
	}

	if len(report.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range report.Sources {
			if s.Web != nil {
				fmt.Fprintf(w, "  - %s (%s)\n", s.Web.Title, s.Web.URI)
			}
		}
	}
	return nil
}
