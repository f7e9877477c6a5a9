// Package server provides the HTTP API over the query engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Logger defines the interface for logging operations within the
// server. This interface allows for dependency injection of any
// compatible logger implementation.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Answerer is the query capability the API exposes.
// pipeline.QueryEngine implements it.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Server is the HTTP server for the query API.
type Server struct {
	engine Answerer
	cfg    *Config
	logger Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(engine Answerer, cfg *Config, logger Logger) *Server {
	return &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Router assembles the route table. Exposed separately so handler tests
// can drive it without a listening socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Post("/query", s.handleQuery)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting http server", nil, map[string]interface{}{"address": addr})
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
