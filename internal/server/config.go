package server

import (
	"time"

	"github.com/oskars/refinerywatch/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Commit proxy authentication. When AuthEnabled is set the proxy
	// requires APIKey in AuthHeader or as a bearer token.
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:        "localhost",
		Port:        constants.DefaultHTTPPort,
		PathPrefix:  constants.DefaultPathPrefix,
		CORSEnabled: false,
		CORSOrigins: []string{},
		AuthEnabled: false,
		AuthHeader:  "X-API-Key",
		RateLimit:   100,
		CacheTTL:    5 * time.Minute,
		ReadTimeout: 10 * time.Second,
		// intel fetches and commits hold the request open
		WriteTimeout:   constants.IntelTimeout + 10*time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}
