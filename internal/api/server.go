package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/config"
	"github.com/user/recipe-parser/internal/domain"
	"github.com/user/recipe-parser/internal/extractor"
	"github.com/user/recipe-parser/internal/monitoring"
)

// StatusReader returns the last recorded extraction outcome for a URL.
type StatusReader interface {
	GetStatus(ctx context.Context, url string) (*domain.ExtractionStatus, error)
}

// RecipeBook is the bookmark service behind /api/recipes.
type RecipeBook interface {
	Add(ctx context.Context, rawURL string) (*domain.Recipe, error)
	List(ctx context.Context) ([]*domain.Recipe, error)
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// Pinger is a dependency reported by /api/health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server. statuses and book may be nil
// when Redis or PostgreSQL is not configured.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	extractor  extractor.Service
	metadata   extractor.Service
	statuses   StatusReader
	book       RecipeBook
	checks     map[string]Pinger
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewServer builds the router. ex serves ingredient extraction; meta serves the
// metadata endpoint and is normally the untracked core extractor.
func NewServer(cfg *config.Config, ex, meta extractor.Service, statuses StatusReader, book RecipeBook, checks map[string]Pinger, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:    cfg,
		extractor: ex,
		metadata:  meta,
		statuses:  statuses,
		book:      book,
		checks:    checks,
		metrics:   m,
		logger:    l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
