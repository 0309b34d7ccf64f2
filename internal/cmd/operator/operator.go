// Package operator gates CLI commands that change staged or published data
// behind the persisted operator session.
package operator

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// Require fails with an AuthenticationError unless an operator is logged in.
func Require(ctx context.Context, app application.Application) error {
	session, err := app.Operator(ctx)
	if err != nil {
		return err
	}
	if !session.Authorized(ctx) {
		return errors.NewAuthenticationError("session", "not logged in, run 'refwatch auth login' first", nil)
	}
	return nil
}

// Client checks the operator session and returns the client together with
// a context bounded by timeout. A zero timeout uses constants.CommandTimeout.
func Client(cmd *cobra.Command, app application.Application, timeout time.Duration) (context.Context, context.CancelFunc, refinerywatch.Client, error) {
	if timeout == 0 {
		timeout = constants.CommandTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)

	if err := Require(ctx, app); err != nil {
		cancel()
		return nil, nil, nil, err
	}
	client, err := app.Client(ctx)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, client, nil
}
