package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lumipay/agent-console/internal/config"
	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/stats"
	"github.com/lumipay/agent-console/internal/storage"
)

type Server struct {
	httpServer *http.Server
	repo       *storage.Repository
	builder    *stats.Builder
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(repo *storage.Repository, builder *stats.Builder, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		repo:    repo,
		builder: builder,
		config:  cfg,
		logger:  log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
