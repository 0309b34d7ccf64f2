package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/cmd/cmdtest"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

func TestExportJSONToStdout(t *testing.T) {
	env := cmdtest.New(t)

	out, err := cmdtest.Run(t, NewCommand(env.Mock))
	require.NoError(t, err)

	var got []refineries.Refinery
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, cmdtest.Refineries(), got)
}

func TestExportYAMLToFile(t *testing.T) {
	env := cmdtest.New(t)
	path := filepath.Join(t.TempDir(), "refineries.yaml")

	_, err := cmdtest.Run(t, NewCommand(env.Mock), "--as", "yaml", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []refineries.Refinery
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "volgograd", got[1].ID)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	env := cmdtest.New(t)

	_, err := cmdtest.Run(t, NewCommand(env.Mock), "--as", "csv")
	assert.True(t, errors.IsValidationError(err))
}

func TestExportMarkdownReport(t *testing.T) {
	env := cmdtest.New(t)

	out, err := cmdtest.Run(t, NewCommand(env.Mock), "--as", "md")
	require.NoError(t, err)

	assert.Contains(t, out, "# Refinery Status")
	assert.Contains(t, out, "**1** of 2 refineries damaged or offline (50%).")
	assert.Contains(t, out, "## Refineries")
	assert.Contains(t, out, "Volgograd")
	assert.Contains(t, out, "2024-02-03")
}
