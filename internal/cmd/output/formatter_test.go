package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/cmd/table"
	"github.com/oskars/refinerywatch/pkg/errors"
)

type sample struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestPrint(t *testing.T) {
	data := table.Data{Headers: []string{"ID", "Status"}, Rows: [][]string{{"ryazan", "Operational"}}}
	raw := []sample{{ID: "ryazan", Status: "Operational"}}

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatTable, []string{"ID", "ryazan", "Operational"}},
		{"", []string{"ryazan"}},
		{FormatJSON, []string{`"id": "ryazan"`, `"status": "Operational"`}},
		{FormatYAML, []string{"- id: ryazan", "status: Operational"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Print(&buf, tt.format, data, raw))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestTableFormatterSingleStruct(t *testing.T) {
	type info struct {
		GoVersion string `json:"go_version"`
		hidden    string
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, info{GoVersion: "go1.24", hidden: "x"}))
	assert.Contains(t, buf.String(), "go1.24")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, strings.ToUpper(buf.String()), "GO VERSION")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"total": 2}))
	assert.Contains(t, buf.String(), `"total": 2`)
}

func TestTableFormatterReflection(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	require.NoError(t, f.Format(&buf, []sample{{ID: "a", Status: "Damaged"}}))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "DAMAGED")
}
