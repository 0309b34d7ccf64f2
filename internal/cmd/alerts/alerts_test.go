package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/cmd/output"
)

func TestFormatWriter(t *testing.T) {
	alert := NewWarning("Commit failed").
		WithError(errors.New("remote changed")).
		WithDetails("Your changes are saved locally.")

	tests := []struct {
		format output.Format
		want   []string
	}{
		{output.FormatTable, []string{"! Commit failed: remote changed", "   Your changes are saved locally."}},
		{output.FormatJSON, []string{`"level": "warning"`, `"error": "remote changed"`}},
		{output.FormatYAML, []string{"level: warning", "message: Commit failed"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewFormatWriter(&buf, tt.format).WriteAlert(alert))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			assert.NotContains(t, buf.String(), "\033[")
		})
	}
}

func TestLevelIcon(t *testing.T) {
	assert.Equal(t, "✓", LevelSuccess.Icon())
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestFormatWriterConfig(t *testing.T) {
	alert := NewSuccess("Published 2 refineries").WithDetails("commit abc123")

	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatTable).WithConfig(WriterConfig{})
	require.NoError(t, w.WriteAlert(alert))
	assert.Equal(t, "✓ Published 2 refineries\n", buf.String())

	buf.Reset()
	w = NewFormatWriter(&buf, output.FormatJSON).WithConfig(WriterConfig{ShowTimestamp: true})
	require.NoError(t, w.WriteAlert(alert))
	assert.Contains(t, buf.String(), `"timestamp": "`)
	assert.Contains(t, buf.String(), `"details": [`)
}
