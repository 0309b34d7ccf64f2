// Package server provides the HTTP server for the RefineryWatch API.
//
// The server exposes the published refinery list and pipelines to the
// public map, the staging and publish workflow to a logged-in operator,
// and the commit proxy that writes the data file to version control.
// Changes are pushed to browsers over WebSocket and Server-Sent Events.
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 8080
//
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv.Start() // Start background services
//	http.ListenAndServe(":8080", srv.Handler())
package server

// @title RefineryWatch API
// @version 1.0
// @description REST API for tracking the operational status of Russian oil refineries and pipelines.
// @description
// @description Features:
// @description - Published refinery list, pipelines, statistics and export
// @description - Staging, intelligence fetch and publish workflow behind an operator session
// @description - Commit proxy writing the data file to GitHub or S3
// @description - Real-time updates via WebSocket and Server-Sent Events
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for the commit proxy (optional, configurable)
