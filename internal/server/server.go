// Package server exposes the chat pipeline and knowledge base over HTTP for
// the desktop UI.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/chat"
	"github.com/jmcampos/techexpert/internal/history"
	"github.com/jmcampos/techexpert/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server serves the chat, documents and history APIs.
type Server struct {
	cfg        Config
	engine     *chat.Engine
	docs       *store.Store
	history    *history.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, engine *chat.Engine, docs *store.Store, hist *history.Store) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  engine,
		docs:    docs,
		history: hist,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/chat", s.handleChat)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleListDocuments)
		r.Post("/", s.handleCreateDocument)
		r.Delete("/{id}", s.handleDeleteDocument)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleGetHistory)
		r.Post("/", s.handleSaveHistory)
		r.Post("/messages", s.handleAppendHistoryMessage)
		r.Delete("/", s.handleClearHistory)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("techexpert server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
