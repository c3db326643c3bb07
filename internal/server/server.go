package server

import (
	"context"
	"net/http"

	"github.com/canvasspace/canvasaem/internal/auth"
	"github.com/canvasspace/canvasaem/internal/docs"
	"github.com/canvasspace/canvasaem/internal/landing"
	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/canvasspace/canvasaem/internal/metrics"
	"github.com/canvasspace/canvasaem/internal/ratelimit"
	"github.com/canvasspace/canvasaem/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Pinger                Pinger
	Sessions              *session.Handler
	SessionSecret         string
	Leads                 *lead.Handler
	AdminKeyHash          string
	Landing               *landing.Handler
	BaseURL               string
	StorageEndpoint       string
	AllowedFrameAncestors string
	EnableDocs            bool
}

type Server struct {
	router         chi.Router
	pinger         Pinger
	sessionHandler *session.Handler
	sessionSecret  string
	leadHandler    *lead.Handler
	adminKeyHash   string
	landingHandler *landing.Handler
	enableDocs     bool
	limiters       []*ratelimit.Limiter
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:               cfg.BaseURL,
		StorageEndpoint:       cfg.StorageEndpoint,
		AllowedFrameAncestors: cfg.AllowedFrameAncestors,
	}))

	s := &Server{
		router:         r,
		pinger:         cfg.Pinger,
		sessionHandler: cfg.Sessions,
		sessionSecret:  cfg.SessionSecret,
		leadHandler:    cfg.Leads,
		adminKeyHash:   cfg.AdminKeyHash,
		landingHandler: cfg.Landing,
		enableDocs:     cfg.EnableDocs,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the rate limiters' eviction loops.
func (s *Server) Close() {
	for _, l := range s.limiters {
		l.Stop()
	}
}

func (s *Server) limiter(requestsPerSecond float64, burst int) *ratelimit.Limiter {
	l := ratelimit.NewLimiter(requestsPerSecond, burst)
	s.limiters = append(s.limiters, l)
	return l
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	if s.enableDocs {
		s.router.Get("/api/docs", docs.HandleDocs)
		s.router.Get("/api/docs/openapi.yaml", docs.HandleSpec)
	}

	if s.sessionHandler != nil {
		sessionLimiter := s.limiter(20, 40)
		s.router.Route("/api/sessions", func(r chi.Router) {
			r.Use(sessionLimiter.Middleware)
			s.sessionHandler.Routes(r, auth.SessionTokenMiddleware(s.sessionSecret))
		})
	}

	if s.leadHandler != nil {
		adminLimiter := s.limiter(1, 5)
		s.router.Route("/api/leads", func(r chi.Router) {
			r.Use(adminLimiter.Middleware)
			r.Use(auth.AdminKeyMiddleware(s.adminKeyHash))
			r.Get("/", s.leadHandler.List)
			r.Get("/export", s.leadHandler.Export)
		})
	}

	if s.landingHandler != nil {
		s.router.Get("/", s.landingHandler.Page)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"database unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
