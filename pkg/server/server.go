// pkg/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bashkirian/cutline-analytics/internal/config"
	"github.com/bashkirian/cutline-analytics/internal/handler"
	"github.com/bashkirian/cutline-analytics/internal/ingest"
	"github.com/bashkirian/cutline-analytics/internal/session"
	"github.com/bashkirian/cutline-analytics/internal/ws"
)

// Server wires the session manager, hub, and HTTP API together.
type Server struct {
	httpServer *http.Server
	manager    *session.Manager
	hub        *ws.Hub
	log        *zap.Logger
	stopHub    context.CancelFunc
}

func New(cfg *config.Config, log *zap.Logger) *Server {
	var store session.Store
	if cfg.Redis.Addr != "" {
		store = session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	} else {
		store = session.NewMemoryStore()
	}

	fetcher := ingest.NewFetcher(cfg.Feed.URL,
		time.Duration(cfg.Feed.TimeoutSeconds)*time.Second, log)
	manager := session.NewManager(store, fetcher, log)
	hub := ws.NewHub(log)
	manager.SetNotifier(hub)

	h := handler.New(manager, hub, cfg.Engine, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/health", h.HandleHealth)
	r.Get("/ws", h.HandleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Post("/session/refresh", h.HandleRefresh)
		r.Get("/session", h.HandleSession)
		r.Get("/series", h.HandleSeries)
		r.Get("/peak", h.HandlePeak)
		r.Get("/events", h.HandleEvents)
		r.Get("/events/export", h.HandleExport)
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		manager:    manager,
		hub:        hub,
		log:        log,
	}
}

// Manager exposes the session manager for startup restore/refresh.
func (s *Server) Manager() *session.Manager {
	return s.manager
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopHub = cancel
	go s.hub.Run(ctx)

	s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopHub != nil {
		s.stopHub()
	}
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
