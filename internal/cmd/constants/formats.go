// Package constants provides shared constants for CLI commands.
package constants

// Output format names accepted by --format.
const (
	FormatTable = "table"
	FormatWide  = "wide"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Export formats accepted by the export command.
const (
	ExportJSON     = "json"
	ExportYAML     = "yaml"
	ExportMarkdown = "markdown"
)

// Command group ids.
const (
	GroupCore       = "core"
	GroupManagement = "management"
)
