package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/server/cache"
	"github.com/oskars/refinerywatch/internal/server/events"
	"github.com/oskars/refinerywatch/internal/server/events/adapters"
	"github.com/oskars/refinerywatch/internal/server/metrics"
	"github.com/oskars/refinerywatch/internal/server/sse"
	ws "github.com/oskars/refinerywatch/internal/server/websocket"
	"github.com/oskars/refinerywatch/pkg/intel"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	started        atomic.Bool
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	logger.Debug().Msg("Creating new server instance")

	// Set defaults
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = "X-API-Key"
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Subscribe transports to broker
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	logger.Debug().Int("subscribers", broker.SubscriberCount()).Msg("Realtime transports subscribed")

	m := metrics.New()
	wsHub.OnClientCount(func(n int) { m.SetRealtimeClients("websocket", n) })
	sseBroadcaster.OnClientCount(func(n int) { m.SetRealtimeClients("sse", n) })

	// Create context for managing background services
	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:            app,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		metrics:        m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg),
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}

	if err := server.connectHooks(); err != nil {
		cancel()
		return nil, err
	}

	logger.Debug().Msg("Server instance created successfully")
	return server, nil
}

// checkOrigin allows every origin unless CORS is restricted to a list.
func checkOrigin(cfg Config) func(*http.Request) bool {
	if !cfg.CORSEnabled || len(cfg.CORSOrigins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(cfg.CORSOrigins))
	for _, o := range cfg.CORSOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// connectHooks bridges client hooks into the event broker, the read cache
// and the metrics gauges.
func (s *Server) connectHooks() error {
	client, err := s.app.Client(s.ctx)
	if err != nil {
		return err
	}

	client.OnRefineryAdded(func(r refineries.Refinery) {
		s.broker.Publish(events.RefineryAdded, map[string]any{
			"refinery": r,
		})
		s.logger.Debug().Str("refinery_id", r.ID).Msg("Refinery added event published")
	})

	client.OnRefineryUpdated(func(old, updated refineries.Refinery) {
		s.broker.Publish(events.RefineryUpdated, map[string]any{
			"old_refinery": old,
			"new_refinery": updated,
		})
		s.logger.Debug().Str("refinery_id", updated.ID).Msg("Refinery updated event published")
	})

	client.OnStagingChanged(func(updates []refineries.Update) {
		s.metrics.SetStaged(len(updates))
		s.broker.Publish(events.StagingChanged, map[string]any{
			"staged": len(updates),
		})
	})

	client.OnPublished(func(result refinerywatch.PublishResult) {
		s.cache.Invalidate(cache.KeyRefineries, cache.KeyStats)
		s.metrics.RecordPublish(string(result.Outcome))
		s.metrics.SetRefineries(refineries.ComputeStats(result.Refineries))

		data := map[string]any{
			"outcome":      result.Outcome,
			"committed":    result.Committed(),
			"refineries":   len(result.Refineries),
			"published_at": result.PublishedAt,
		}
		if result.Receipt != nil {
			data["commit"] = result.Receipt.Commit
			data["revision"] = result.Receipt.Revision
		}
		if w := result.Warning(); w != "" {
			data["warning"] = w
		}
		s.broker.Publish(events.PublishCompleted, data)
	})

	client.OnIntelCompleted(func(report intel.Report, err error) {
		s.metrics.RecordIntelFetch(err)
		data := map[string]any{
			"success": err == nil,
			"summary": report.Summary,
			"updates": len(report.Updates),
		}
		s.broker.Publish(events.IntelCompleted, data)
	})

	s.metrics.SetStaged(len(client.Updates()))
	s.metrics.SetRefineries(client.Stats())

	s.logger.Info().Msg("Refinery hooks connected to event broker")
	return nil
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Debug().Msg("Starting background services")

	services := []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run}
	finished := make(chan struct{}, len(services))
	for _, run := range services {
		go func() {
			run(s.ctx)
			finished <- struct{}{}
		}()
	}
	go func() {
		for range services {
			<-finished
		}
		close(s.done)
	}()

	s.logger.Debug().Msg("All background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services and waits for them until ctx
// expires. It is safe to call without Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	if !s.started.Load() {
		return nil
	}

	select {
	case <-s.done:
		s.logger.Info().Msg("Background services shut down successfully")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Metrics returns the server's Prometheus collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
