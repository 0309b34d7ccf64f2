// Package globals reads the root command's persistent flags from any
// subcommand.
package globals

import (
	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/internal/cmd/output"
)

// Flags holds global common flags across all commands.
type Flags struct {
	Format  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// Parse extracts global flags from the command hierarchy. A format that
// was not given falls back to output.DetectFormat.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd.Root()

	format, _ := root.PersistentFlags().GetString("format")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")

	parsed, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return &Flags{
		Format:  string(output.DetectFormat(string(parsed))),
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
	}, nil
}

// OutputFormat returns the parsed format as an output.Format.
func (f *Flags) OutputFormat() output.Format {
	return output.Format(f.Format)
}
