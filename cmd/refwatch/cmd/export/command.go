// Package export writes the published refinery list to a file or stdout.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	pkgconstants "github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		format string
		path   string
	)

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: constants.GroupManagement,
		Short:   "Export the published refinery list",
		Example: `  refwatch export                       # JSON to stdout
  refwatch export --as yaml             # YAML to stdout
  refwatch export --as md               # Markdown status report
  refwatch export --output refineries.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case constants.ExportJSON:
				data, err = client.ExportJSON()
			case constants.ExportYAML, "yml":
				data, err = client.ExportYAML()
			case constants.ExportMarkdown, "md":
				data, err = statusReport(client.Refineries(), client.Stats())
			default:
				return errors.NewValidationError("as", format, "must be json, yaml or markdown")
			}
			if err != nil {
				return err
			}

			if path == "" || path == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(path, data, pkgconstants.FilePermissions); err != nil {
				return errors.WrapIO("write", path, err)
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d refineries to %s\n", len(client.Refineries()), path)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "as", constants.ExportJSON, "Export format (json, yaml, markdown)")
	cmd.Flags().StringVar(&path, "output", "", "Write to this file instead of stdout")

	return cmd
}
