package app

import (
	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/auth"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/export"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/fetch"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/list"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/man"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/publish"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/reset"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/serve"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/staging"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/stats"
	"github.com/oskars/refinerywatch/cmd/refwatch/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(stats.NewCommand(a))
	rootCmd.AddCommand(staging.NewCommand(a))
	rootCmd.AddCommand(fetch.NewCommand(a))
	rootCmd.AddCommand(publish.NewCommand(a))
	rootCmd.AddCommand(publish.NewRecommitCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(auth.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(reset.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(man.NewCommand())
}
