package server

import (
	"net/http"

	"github.com/oskars/refinerywatch/internal/server/handlers"
	"github.com/oskars/refinerywatch/internal/server/middleware"
	"github.com/oskars/refinerywatch/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.cache,
		s.broker,
		s.wsHub,
		s.sseBroadcaster,
		&s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Public read endpoints
	mux.HandleFunc("GET "+prefix+"/refineries", h.HandleListRefineries)
	mux.HandleFunc("GET "+prefix+"/refineries/{id}", h.HandleGetRefinery)
	mux.HandleFunc("GET "+prefix+"/pipelines", h.HandleListPipelines)
	mux.HandleFunc("GET "+prefix+"/stats", h.HandleStats)
	mux.HandleFunc("GET "+prefix+"/export", h.HandleExport)

	// Operator session
	mux.HandleFunc("POST "+prefix+"/login", h.HandleLogin)
	mux.HandleFunc("POST "+prefix+"/logout", h.HandleLogout)
	mux.HandleFunc("GET "+prefix+"/session", h.HandleSession)

	// Editing endpoints require an operator session
	operator := middleware.RequireOperator(s.app.Sessions())
	protect := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, operator(fn))
	}
	protect("GET "+prefix+"/staging", h.HandleGetStaging)
	protect("PUT "+prefix+"/staging", h.HandleReplaceStaging)
	protect("PATCH "+prefix+"/staging/{index}", h.HandleEditField)
	protect("POST "+prefix+"/staging/{index}/urls", h.HandleAddURL)
	protect("PUT "+prefix+"/staging/{index}/urls/{urlIndex}", h.HandleSetURL)
	protect("DELETE "+prefix+"/staging/{index}/urls/{urlIndex}", h.HandleRemoveURL)
	protect("POST "+prefix+"/intel/fetch", h.HandleFetchIntel)
	protect("GET "+prefix+"/intel", h.HandleGetIntel)
	protect("POST "+prefix+"/publish", h.HandlePublish)
	protect("POST "+prefix+"/recommit", h.HandleRecommit)
	protect("POST "+prefix+"/reset", h.HandleReset)

	// Commit proxy, also at the legacy path the web frontend posts to
	apiKey := middleware.APIKey(middleware.APIKeyConfig{
		Enabled:    s.config.AuthEnabled,
		APIKey:     s.config.APIKey,
		HeaderName: s.config.AuthHeader,
	}, s.logger)
	commitHandler := apiKey(http.HandlerFunc(h.HandleCommitRefineries))
	commitPaths := []string{prefix + "/commit-refineries"}
	if commitPaths[0] != "/api/commit-refineries" {
		commitPaths = append(commitPaths, "/api/commit-refineries")
	}
	for _, path := range commitPaths {
		mux.Handle("POST "+path, commitHandler)
		mux.HandleFunc(path, postOnly)
	}

	// Real-time endpoints
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/updates/stream", h.HandleSSE)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// postOnly answers any other method with a JSON 405.
func postOnly(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	response.MethodNotAllowed(w, r.Method)
}

// applyMiddleware wraps handler with the middleware chain, outermost first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	}

	if cfg.MetricsEnabled {
		chain = append(chain, middleware.Metrics(s.metrics, cfg.PathPrefix))
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(s.ctx, cfg.RateLimit, s.logger)
		chain = append(chain, middleware.RateLimit(rateLimiter))
	}

	chain = append(chain, s.app.Sessions().Middleware)

	return middleware.Chain(chain...)(handler)
}
