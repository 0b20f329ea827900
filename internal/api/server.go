// Package api exposes the document lifecycle over a JSON HTTP API. Identity
// is the surrounding deployment's concern: handlers trust the X-Actor-ID
// header.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zulandar/doctrail/internal/lifecycle"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Service *lifecycle.Service
	Port    int
	Log     zerolog.Logger
}

// Start launches the API HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Service == nil {
		return fmt.Errorf("api: service is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	router := NewRouter(opts.Service, opts.Log)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	opts.Log.Info().Int("port", opts.Port).Msg("api listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// NewRouter builds the Gin router with all API routes registered.
func NewRouter(svc *lifecycle.Service, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, svc, log)
	return router
}
