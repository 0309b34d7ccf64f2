package globals

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReadsRootFlags(t *testing.T) {
	root := &cobra.Command{Use: "refwatch"}
	root.PersistentFlags().String("format", "", "")
	root.PersistentFlags().Bool("quiet", false, "")
	root.PersistentFlags().Bool("verbose", false, "")
	root.PersistentFlags().Bool("no-color", false, "")
	child := &cobra.Command{Use: "list"}
	root.AddCommand(child)

	require.NoError(t, root.PersistentFlags().Set("format", "YAML"))
	require.NoError(t, root.PersistentFlags().Set("quiet", "true"))

	flags, err := Parse(child)
	require.NoError(t, err)
	assert.Equal(t, "yaml", flags.Format)
	assert.True(t, flags.Quiet)

	require.NoError(t, root.PersistentFlags().Set("format", "xml"))
	_, err = Parse(child)
	assert.Error(t, err)
}

func TestListFlags(t *testing.T) {
	f := &ListFlags{Search: "RYA", Limit: 2}
	assert.True(t, f.Matches("ryazan", ""))
	assert.True(t, f.Matches("x", "Ryazan Refinery"))
	assert.False(t, f.Matches("volgograd", "Volgograd"))
	assert.Equal(t, 2, f.Apply(5))
	assert.Equal(t, 1, f.Apply(1))

	assert.True(t, (&ListFlags{}).Matches("anything", ""))
}
