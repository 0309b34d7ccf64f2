package serve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/pkg/errors"
)

func TestResolveDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("HTTP_HOST", "")
	t.Setenv("API_KEY", "")

	_, opts := newCommand(&application.Mock{})
	cfg, err := opts.resolve()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.PathPrefix)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestResolveFlagsAndEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_HOST", "0.0.0.0")
	t.Setenv("API_KEY", "from-env")

	cmd, opts := newCommand(&application.Mock{})
	require.NoError(t, cmd.Flags().Set("cache-ttl", "60"))
	require.NoError(t, cmd.Flags().Set("cors-origins", "https://a.example,https://b.example"))

	cfg, err := opts.resolve()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	// the flag wins over API_KEY
	require.NoError(t, cmd.Flags().Set("api-key", "flag"))
	cfg, err = opts.resolve()
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.APIKey)
}

func TestResolveRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		port string
		flag []string
	}{
		{name: "port out of range", port: "70000"},
		{name: "port not a number", port: "abc"},
		{name: "negative cache ttl", flag: []string{"cache-ttl", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HTTP_PORT", tt.port)
			cmd, opts := newCommand(&application.Mock{})
			if tt.flag != nil {
				require.NoError(t, cmd.Flags().Set(tt.flag[0], tt.flag[1]))
			}
			_, err := opts.resolve()
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}
