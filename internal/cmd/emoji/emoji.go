// Package emoji provides the symbols used in CLI output.
package emoji

// Symbols shared by tables and alerts.
const (
	// Success marks completed operations and operational refineries.
	Success = "✓"

	// Error marks failures and offline refineries.
	Error = "✗"

	// Warning marks non-fatal problems and damaged refineries.
	Warning = "!"

	// Unknown marks an unrecognized status.
	Unknown = "?"

	Info = "i"
)
