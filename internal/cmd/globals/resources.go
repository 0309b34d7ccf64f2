package globals

import (
	"strings"

	"github.com/spf13/cobra"
)

// ListFlags holds the filters shared by list commands.
type ListFlags struct {
	Search string
	Limit  int
}

// AddListFlags adds list filter flags to a command.
func AddListFlags(cmd *cobra.Command) *ListFlags {
	flags := &ListFlags{}

	cmd.Flags().StringVar(&flags.Search, "search", "",
		"Only show entries whose id or name contains this text")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of results")

	return flags
}

// ParseListFlags reads the flags added by AddListFlags.
// The command must have had AddListFlags called on it, otherwise this will panic.
func ParseListFlags(cmd *cobra.Command) *ListFlags {
	search, err := cmd.Flags().GetString("search")
	if err != nil {
		panic("programming error: failed to get flag search: " + err.Error())
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		panic("programming error: failed to get flag limit: " + err.Error())
	}
	return &ListFlags{Search: search, Limit: limit}
}

// Matches reports whether id or name contains the search text,
// case-insensitively. An empty search matches everything.
func (f *ListFlags) Matches(id, name string) bool {
	if f.Search == "" {
		return true
	}
	s := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(id), s) || strings.Contains(strings.ToLower(name), s)
}

// Apply truncates n results to the limit and returns the new length.
func (f *ListFlags) Apply(n int) int {
	if f.Limit > 0 && n > f.Limit {
		return f.Limit
	}
	return n
}
