// Package server exposes the IDE runner over HTTP and WebSocket.
package server

import (
	"net/http"
	"time"

	"ojide/internal/ide/config"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/poll"
	"ojide/internal/ide/runner"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// Server serves run requests against one judge backend. Each HTTP run is
// independent; each WebSocket connection gets its own runner state.
type Server struct {
	backend   judge.Backend
	pollOpts  poll.Options
	languages []config.Language
	runner    *runner.Runner
	sem       *semaphore.Weighted
	cors      config.CORSConfig
}

func New(backend judge.Backend, cfg config.Config) *Server {
	limit := cfg.Server.MaxConcurrentRuns
	if limit <= 0 {
		limit = config.DefaultMaxRuns
	}
	return &Server{
		backend:   backend,
		pollOpts:  cfg.PollOptions(),
		languages: cfg.Languages,
		runner:    runner.New(backend, cfg.PollOptions()),
		sem:       semaphore.NewWeighted(limit),
		cors:      cfg.Server.CORS,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(TraceContextMiddleware())
	router.Use(requestLogger())
	router.Use(CORSMiddleware(s.cors))

	router.GET("/healthz", s.Healthz)

	api := router.Group("/api")
	api.GET("/languages", s.Languages)
	api.POST("/run", s.Run)
	api.GET("/run/ws", s.RunWS)

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	return router
}

// HTTPServer wraps Router in a configured http.Server.
func (s *Server) HTTPServer(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// Healthz reports liveness.
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": s.backend.Name()})
}

func (s *Server) language(nameOrID string) (config.Language, error) {
	cfg := config.Config{Languages: s.languages}
	lang, ok := cfg.Language(nameOrID)
	if !ok {
		return config.Language{}, appErr.Newf(appErr.LanguageNotSupported, "unknown language %q", nameOrID)
	}
	return lang, nil
}

func (s *Server) acquire() bool {
	return s.sem.TryAcquire(1)
}

func (s *Server) release() {
	s.sem.Release(1)
}
