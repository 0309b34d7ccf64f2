// Package publish provides the publish and recommit commands.
package publish

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/alerts"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/operator"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/internal/cmd/table"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// resultView adds the derived fields to a result for structured output.
type resultView struct {
	*refinerywatch.PublishResult `yaml:",inline"`
	Committed bool   `json:"committed" yaml:"committed"`
	Warning   string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// NewCommand creates the publish command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "publish",
		GroupID: constants.GroupCore,
		Short:   "Merge the pending updates into the published data and commit it",
		Long: `Publish merges every pending update into the published refinery list,
saves the result locally and commits it to version control. The pending
updates are cleared whatever the commit outcome; a failed commit is
reported as a warning and can be retried with 'refwatch recommit'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, client, err := operator.Client(cmd, app, 0)
			if err != nil {
				return err
			}
			defer cancel()

			result, err := client.Publish(ctx)
			if errors.Is(err, errors.ErrNothingToPublish) {
				return fmt.Errorf("%w; run 'refwatch recommit' to resend the published list", err)
			}
			if err != nil {
				return err
			}
			return printResult(cmd, result, "Published")
		},
	}
}

// NewRecommitCommand creates the recommit command.
func NewRecommitCommand(app application.Application) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "recommit",
		GroupID: constants.GroupCore,
		Short:   "Commit the published data to version control again",
		Long: `Recommit sends the current published list to version control without
touching the pending updates. Use it after a publish whose commit failed.
With --force the remote revision check is skipped and the remote file is
overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, client, err := operator.Client(cmd, app, 0)
			if err != nil {
				return err
			}
			defer cancel()

			result, err := client.Recommit(ctx, force)
			if err != nil {
				return err
			}
			return printResult(cmd, result, "Recommitted")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the remote file even if it changed")

	return cmd
}

func printResult(cmd *cobra.Command, result *refinerywatch.PublishResult, verb string) error {
	globalFlags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	format := globalFlags.OutputFormat()
	if format != output.FormatTable && format != output.FormatWide {
		view := resultView{PublishResult: result, Committed: result.Committed(), Warning: result.Warning()}
		return output.NewFormatter(format).Format(w, view)
	}

	if result.Changeset != nil && !globalFlags.Quiet {
		if err := printChangeset(w, result); err != nil {
			return err
		}
	}

	writer := alerts.NewFormatWriter(w, format)
	if warning := result.Warning(); warning != "" {
		return writer.WriteAlert(alerts.NewWarning(warning))
	}

	alert := alerts.NewSuccess(fmt.Sprintf("%s %d refineries", verb, len(result.Refineries)))
	if result.Receipt != nil && result.Receipt.Message != "" {
		alert.WithDetails(result.Receipt.Message)
	}
	if result.Receipt != nil && result.Receipt.Commit != "" {
		alert.WithDetails("commit " + result.Receipt.Commit)
	}
	return writer.WriteAlert(alert)
}

func printChangeset(w io.Writer, result *refinerywatch.PublishResult) error {
	data := table.ChangesetToTableData(result.Changeset)
	if len(data.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No field changes.")
		return err
	}
	return output.NewFormatter(output.FormatTable).Format(w, data)
}
