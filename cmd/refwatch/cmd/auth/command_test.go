package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/cmd/cmdtest"
	"github.com/oskars/refinerywatch/pkg/errors"
)

func TestLoginLogout(t *testing.T) {
	env := cmdtest.New(t)
	ctx := t.Context()

	out, err := cmdtest.Run(t, NewCommand(env.Mock), "login", "--password", cmdtest.Password, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin")
	assert.True(t, env.Operator.Authorized(ctx))

	_, err = cmdtest.Run(t, NewCommand(env.Mock), "logout")
	require.NoError(t, err)
	assert.False(t, env.Operator.Authorized(ctx))
}

func TestLoginPasswordSources(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		env := cmdtest.New(t)
		_, err := cmdtest.RunWithInput(t, cmdtest.Password+"\n", NewCommand(env.Mock), "login", "--password-stdin")
		require.NoError(t, err)
		assert.True(t, env.Operator.Authorized(t.Context()))
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(PasswordEnv, cmdtest.Password)
		env := cmdtest.New(t)
		_, err := cmdtest.Run(t, NewCommand(env.Mock), "login")
		require.NoError(t, err)
		assert.True(t, env.Operator.Authorized(t.Context()))
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv(PasswordEnv, "")
		env := cmdtest.New(t)
		_, err := cmdtest.Run(t, NewCommand(env.Mock), "login")
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := cmdtest.New(t)

	_, err := cmdtest.Run(t, NewCommand(env.Mock), "login", "--password", "wrong")
	assert.True(t, errors.IsUnauthorized(err))
	assert.False(t, env.Operator.Authorized(t.Context()))
}

func TestStatus(t *testing.T) {
	env := cmdtest.New(t)

	out, err := cmdtest.Run(t, NewCommand(env.Mock), "status", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
	assert.Contains(t, out, "Operator password: configured")

	env.Login(t)
	out, err = cmdtest.Run(t, NewCommand(env.Mock), "status", "-o", "json")
	require.NoError(t, err)

	var got statusView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, statusView{Authenticated: true, Username: "admin", Password: "configured"}, got)
}
