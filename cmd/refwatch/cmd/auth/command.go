// Package auth provides the operator login, logout and status commands.
package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/alerts"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/globals"
	"github.com/oskars/refinerywatch/internal/cmd/output"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// PasswordEnv is read by login when neither --password nor
// --password-stdin is given.
const PasswordEnv = "REFWATCH_AUTH_PASSWORD"

// NewCommand creates the auth command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: constants.GroupManagement,
		Short:   "Manage the operator session",
		Long: `Log in as the operator to stage, fetch, publish and reset refinery data.
Read-only commands such as list and stats work without a session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewLoginCommand(app))
	cmd.AddCommand(NewLogoutCommand(app))
	cmd.AddCommand(NewStatusCommand(app))

	return cmd
}

// NewLoginCommand creates the auth login subcommand.
func NewLoginCommand(app application.Application) *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start an operator session",
		Example: `  refwatch auth login --password-stdin < password.txt
  REFWATCH_AUTH_PASSWORD=... refwatch auth login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.Operator(cmd.Context())
			if err != nil {
				return err
			}
			if username == "" {
				username = session.Username()
			}

			switch {
			case passwordStdin:
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
			case password == "":
				password = os.Getenv(PasswordEnv)
			}
			if password == "" {
				return errors.NewValidationError("password", "", "use --password, --password-stdin or "+PasswordEnv)
			}

			if err := session.Login(cmd.Context(), username, password); err != nil {
				app.Logger().Warn().Str("username", username).Msg("Operator login failed")
				return err
			}
			app.Logger().Info().Str("username", username).Msg("Operator logged in")
			return writeAlert(cmd, alerts.NewSuccess("Logged in as "+username))
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Operator username (default from config)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Operator password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

// NewLogoutCommand creates the auth logout subcommand.
func NewLogoutCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the operator session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.Operator(cmd.Context())
			if err != nil {
				return err
			}
			if err := session.Logout(cmd.Context()); err != nil {
				return err
			}
			return writeAlert(cmd, alerts.NewSuccess("Logged out"))
		},
	}
}

// statusView is the structured form of auth status.
type statusView struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Username      string `json:"username" yaml:"username"`
	Password      string `json:"password" yaml:"password"`
}

// NewStatusCommand creates the auth status subcommand.
func NewStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an operator session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.Operator(cmd.Context())
			if err != nil {
				return err
			}
			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			view := statusView{
				Authenticated: session.Authorized(cmd.Context()),
				Username:      session.Username(),
				Password:      session.State().String(),
			}

			format := globalFlags.OutputFormat()
			if format != output.FormatTable && format != output.FormatWide {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), view)
			}

			w := cmd.OutOrStdout()
			if view.Authenticated {
				_, err = fmt.Fprintf(w, "Logged in as %s\n", view.Username)
			} else {
				_, err = fmt.Fprintln(w, "Not logged in")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "Operator password: %s\n", view.Password)
			return err
		},
	}
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.WrapIO("read", "stdin", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeAlert(cmd *cobra.Command, alert *alerts.Alert) error {
	globalFlags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}
	if globalFlags.Quiet {
		return nil
	}
	return alerts.NewFormatWriter(cmd.OutOrStdout(), globalFlags.OutputFormat()).WriteAlert(alert)
}
