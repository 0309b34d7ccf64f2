// Package reset restores the built-in refinery list.
package reset

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/alerts"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/operator"
)

// NewCommand creates the reset command.
func NewCommand(app application.Application) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "reset",
		GroupID: constants.GroupManagement,
		Short:   "Discard local data and restore the built-in refinery list",
		Long: `Reset deletes the locally saved published list and every pending update,
then reloads the refinery list the binary ships with. Nothing is committed
to version control.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, client, err := operator.Client(cmd, app, 0)
			if err != nil {
				return err
			}
			defer cancel()

			if !yes && !confirm(cmd) {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
				return err
			}

			if err := client.Reset(ctx); err != nil {
				return err
			}

			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}
			if globalFlags.Quiet {
				return nil
			}
			msg := fmt.Sprintf("Restored %d built-in refineries", len(client.Refineries()))
			return alerts.NewFormatWriter(cmd.OutOrStdout(), globalFlags.OutputFormat()).
				WriteAlert(alerts.NewSuccess(msg))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&yes, "force", false, "Alias for --yes")

	return cmd
}

func confirm(cmd *cobra.Command) bool {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "This discards all local data and pending updates. Continue? [y/N] ")
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
