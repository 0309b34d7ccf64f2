// Package constants holds values shared across refinerywatch: timeouts,
// permissions, persisted key names and limits.
package constants

import "time"

// Timeouts.
const (
	// DefaultHTTPTimeout bounds outbound HTTP calls (commit proxy, GitHub, S3).
	DefaultHTTPTimeout = 30 * time.Second

	// IntelTimeout bounds a single intelligence fetch.
	IntelTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands.
	CommandTimeout = 5 * time.Minute

	// ShutdownTimeout is the grace period for the HTTP server.
	ShutdownTimeout = 10 * time.Second

	// AuthErrorDismiss is how long a login failure message stays visible.
	AuthErrorDismiss = 3 * time.Second
)

// File permissions.
const (
	DirPermissions        = 0755
	FilePermissions       = 0644
	SecureFilePermissions = 0600
)

// Limits.
const (
	// MaxRequestBody caps JSON request bodies accepted by the server.
	MaxRequestBody = 4 << 20

	// MaxDescriptionLength is the longest accepted description.
	MaxDescriptionLength = 4096

	// MaxVideoURLs is the most evidence URLs one refinery may carry.
	MaxVideoURLs = 50
)

// Defaults.
const (
	DefaultIntelModel  = "gemini-2.0-flash"
	DefaultGitHubOwner = "oskars"
	DefaultGitHubRepo  = "RefineryWatch-Russian-Infrastructure-Tracker"
	DefaultGitHubPath  = "constants.ts"
	DefaultBranch      = "main"
	DefaultUsername    = "admin"
	DefaultHTTPPort    = 8080
	DefaultPathPrefix  = "/api/v1"
)

// CommitMessagePrefix starts every data commit message.
const CommitMessagePrefix = "Update refinery data via Admin Panel"

// IntelFailureMessage replaces the latest report when a fetch fails.
const IntelFailureMessage = "Failed to retrieve intelligence report. Please check connection and try again."
