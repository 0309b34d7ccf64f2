package staging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/pkg/editor"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

func newSetCommand(app application.Application) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "set <row> <field> [value]",
		Short: "Set one field of a row's pending update",
		Long: `Set one field of a row's pending update.

Fields:
  status             Operational, Damaged, Offline or Unknown
  description        free text
  lastIncidentDate   kept verbatim; --clear removes it
  incidentVideoUrls  comma-separated list, empty for none`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := editor.ParseField(args[1])
			if err != nil {
				return err
			}
			value, err := fieldValue(field, args[2:], clear)
			if err != nil {
				return err
			}

			return edit(cmd, app, func(ctx context.Context, client refinerywatch.Client) error {
				index, err := rowIndex(client, args[0])
				if err != nil {
					return err
				}
				return client.SetField(ctx, index, field, value)
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove lastIncidentDate from the update")

	return cmd
}

// fieldValue converts the command-line value to what editor.SetField takes.
func fieldValue(field editor.Field, args []string, clear bool) (any, error) {
	if clear {
		if field != editor.FieldLastIncidentDate {
			return nil, errors.NewValidationError("clear", field, "only lastIncidentDate can be cleared")
		}
		return (*string)(nil), nil
	}
	if len(args) == 0 {
		if field == editor.FieldIncidentVideoURLs || field == editor.FieldDescription {
			args = []string{""}
		} else {
			return nil, errors.NewValidationError(string(field), nil, "a value is required")
		}
	}

	v := args[0]
	switch field {
	case editor.FieldStatus:
		status := refineries.ParseStatus(v)
		if !strings.EqualFold(strings.TrimSpace(v), string(status)) {
			return nil, errors.NewValidationError(string(field), v, "unknown refinery status")
		}
		return status, nil
	case editor.FieldIncidentVideoURLs:
		urls := []string{}
		for u := range strings.SplitSeq(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		return urls, nil
	default:
		return v, nil
	}
}

func newAddURLCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "add-url <row>",
		Short: "Append an empty evidence URL slot to a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, app, func(ctx context.Context, client refinerywatch.Client) error {
				index, err := rowIndex(client, args[0])
				if err != nil {
					return err
				}
				return client.AddVideoURL(ctx, index)
			})
		},
	}
}

func newSetURLCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <row> <url-index> <url>",
		Short: "Replace one evidence URL of a row",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, err := urlIndex(args[1])
			if err != nil {
				return err
			}
			return edit(cmd, app, func(ctx context.Context, client refinerywatch.Client) error {
				index, err := rowIndex(client, args[0])
				if err != nil {
					return err
				}
				return client.SetVideoURL(ctx, index, ui, args[2])
			})
		},
	}
}

func newRemoveURLCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-url <row> <url-index>",
		Short: "Remove one evidence URL from a row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, err := urlIndex(args[1])
			if err != nil {
				return err
			}
			return edit(cmd, app, func(ctx context.Context, client refinerywatch.Client) error {
				index, err := rowIndex(client, args[0])
				if err != nil {
					return err
				}
				return client.RemoveVideoURL(ctx, index, ui)
			})
		},
	}
}

func newReplaceCommand(app application.Application) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "replace --file <updates.yaml|updates.json>",
		Short: "Replace the pending update set with updates read from a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updates, err := readUpdates(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return edit(cmd, app, func(ctx context.Context, client refinerywatch.Client) error {
				return client.SetUpdates(ctx, updates)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File holding a list of updates (JSON or YAML, - for stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readUpdates decodes a list of updates. YAML is a superset of JSON, so
// one decoder reads both.
func readUpdates(stdin io.Reader, path string) ([]refineries.Update, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var updates []refineries.Update
	if err := yaml.Unmarshal(data, &updates); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return updates, nil
}

func newClearCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard every pending update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return edit(cmd, app, func(ctx context.Context, client refinerywatch.Client) error {
				return client.SetUpdates(ctx, []refineries.Update{})
			})
		},
	}
}
