// Package staging provides the operator commands that review and edit the
// pending update set.
package staging

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/operator"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/internal/cmd/table"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/reconciler"
)

// NewCommand creates the staging command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "staging",
		Aliases: []string{"stage", "edit"},
		GroupID: constants.GroupCore,
		Short:   "Review and edit pending refinery updates",
		Long: `Staging shows the published refineries merged with the pending updates.

Rows are addressed by their index in the staging view or by refinery id.
Editing a row that has no pending update creates one from the row's
current data. All staging commands require an operator session.`,
		Example: `  refwatch staging                                  # Show the staging view
  refwatch staging set ryazan status Offline
  refwatch staging set 3 lastIncidentDate 2024-05-02
  refwatch staging add-url ryazan
  refwatch staging set-url ryazan 0 https://x.com/user/status/1
  refwatch staging replace --file updates.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cancel, client, err := operator.Client(cmd, app, 0)
			if err != nil {
				return err
			}
			defer cancel()
			return printStaging(cmd, client)
		},
	}

	cmd.AddCommand(newSetCommand(app))
	cmd.AddCommand(newAddURLCommand(app))
	cmd.AddCommand(newSetURLCommand(app))
	cmd.AddCommand(newRemoveURLCommand(app))
	cmd.AddCommand(newReplaceCommand(app))
	cmd.AddCommand(newClearCommand(app))

	return cmd
}

// edit runs fn against the client under an operator session, then prints
// the staging view.
func edit(cmd *cobra.Command, app application.Application, fn func(ctx context.Context, client refinerywatch.Client) error) error {
	ctx, cancel, client, err := operator.Client(cmd, app, 0)
	if err != nil {
		return err
	}
	defer cancel()

	if err := fn(ctx, client); err != nil {
		return err
	}
	return printStaging(cmd, client)
}

func printStaging(cmd *cobra.Command, client refinerywatch.Client) error {
	globalFlags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}
	staging := client.Staging()
	return output.Print(cmd.OutOrStdout(), globalFlags.OutputFormat(), table.RowsToTableData(staging.Rows), staging)
}

// rowIndex resolves a row argument that is either an index into the
// staging view or a refinery id.
func rowIndex(client refinerywatch.Client, arg string) (int, error) {
	if i, err := strconv.Atoi(arg); err == nil {
		if i < 0 {
			return 0, errors.NewValidationError("index", arg, "index must not be negative")
		}
		return i, nil
	}
	if i := reconciler.Index(client.Rows(), arg); i >= 0 {
		return i, nil
	}
	return 0, errors.NewNotFoundError("refinery", arg)
}

// urlIndex parses an evidence list position.
func urlIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 {
		return 0, errors.NewValidationError("url-index", arg, "url index must be a non-negative integer")
	}
	return i, nil
}
