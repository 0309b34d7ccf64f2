// Package cmdtest wires commands to a real in-memory client for tests.
package cmdtest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/auth"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/seed"
	"github.com/oskars/refinerywatch/internal/storage/memory"
	"github.com/oskars/refinerywatch/internal/vcs"
	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Password is the operator password accepted by Env.
const Password = "secret"

// Env is a command test environment.
type Env struct {
	Mock     *application.Mock
	Client   refinerywatch.Client
	Backend  *vcs.MemoryBackend
	Store    storage.Store
	Operator *auth.FlagSession
}

// Refineries returns a small fixed refinery list.
func Refineries() []refineries.Refinery {
	return []refineries.Refinery{
		{ID: "ryazan", Name: "Ryazan", Lat: 54.6, Lng: 39.7, Status: refineries.StatusOperational, Description: "Running"},
		{ID: "volgograd", Name: "Volgograd", Lat: 48.5, Lng: 44.5, Status: refineries.StatusDamaged, Description: "Drone strike",
			LastIncidentDate: "2024-02-03"},
	}
}

// New builds an Env whose client publishes to an in-memory backend.
// Extra options are applied after the defaults.
func New(t testing.TB, opts ...refinerywatch.Option) *Env {
	t.Helper()

	pipelines, err := seed.Pipelines()
	require.NoError(t, err)
	backend := vcs.NewMemoryBackend()
	committer := vcs.NewCommitter(backend, pipelines)
	store := memory.New()

	base := []refinerywatch.Option{
		refinerywatch.WithStore(store),
		refinerywatch.WithInitialRefineries(Refineries()),
		refinerywatch.WithCommitter(committer),
	}
	client, err := refinerywatch.New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)

	operator := auth.NewFlagSession(store, auth.NewChecker(auth.Credentials{Password: Password}))

	env := &Env{
		Client:   client,
		Backend:  backend,
		Store:    store,
		Operator: operator,
	}
	env.Mock = &application.Mock{
		ClientFunc:       func(context.Context) (refinerywatch.Client, error) { return client, nil },
		VCSCommitterFunc: func(context.Context) (commit.Committer, error) { return committer, nil },
		OperatorFunc:     func(context.Context) (*auth.FlagSession, error) { return operator, nil },
	}
	return env
}

// Login persists an operator session.
func (e *Env) Login(t testing.TB) {
	t.Helper()
	require.NoError(t, e.Operator.Login(context.Background(), "admin", Password))
}

// Run executes cmd under a root command carrying the global flags and
// returns what it wrote to stdout. Stdin is empty.
func Run(t testing.TB, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	return RunWithInput(t, "", cmd, args...)
}

// RunWithInput is Run with stdin reading from input.
func RunWithInput(t testing.TB, input string, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "refwatch", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(
		&cobra.Group{ID: constants.GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: constants.GroupManagement, Title: "Management Commands:"},
	)
	root.PersistentFlags().StringP("format", "o", "", "")
	root.PersistentFlags().BoolP("quiet", "q", false, "")
	root.PersistentFlags().BoolP("verbose", "v", false, "")
	root.PersistentFlags().Bool("no-color", false, "")
	root.AddCommand(cmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(append([]string{cmd.Name()}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
