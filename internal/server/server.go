// Package server exposes extraction and aggregation over HTTP for the web UI.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/review"
)

const (
	maxBodyBytes    = 2 << 20
	shutdownTimeout = 10 * time.Second
)

// Server is the scout HTTP API
type Server struct {
	cfg      model.ServerConfig
	resolver *review.Resolver
	logger   *zap.Logger
	engine   *gin.Engine
}

// New builds the router. resolver and logger may be nil.
func New(cfg model.ServerConfig, resolver *review.Resolver, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = review.NewResolver(nil, nil, logger)
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{cfg: cfg, resolver: resolver, logger: logger}

	engine := gin.New()
	engine.Use(requestID(), accessLog(logger), recovery(logger), cors(), limitBody(maxBodyBytes))

	engine.GET("/healthz", s.handleHealth)
	v1 := engine.Group("/v1")
	v1.POST("/extract", s.handleExtract)
	v1.POST("/aggregate", s.handleAggregate)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}
