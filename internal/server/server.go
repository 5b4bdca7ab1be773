// Package server exposes the intake dispatcher over HTTP: one invocation
// endpoint plus health and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/dispatch"
	"insurance-intake/internal/protocol"
)

type Config struct {
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	InvokeTimeout time.Duration
}

type Server struct {
	config     *Config
	engine     *gin.Engine
	dispatcher *dispatch.Dispatcher
	logger     logger.Logger
}

// New wires the routes. A nil limiter disables rate limiting.
func New(config *Config, dispatcher *dispatch.Dispatcher, limiter *RateLimiter, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		config:     config,
		engine:     engine,
		dispatcher: dispatcher,
		logger:     log.WithFields(map[string]interface{}{"component": "server"}),
	}

	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	invoke := engine.Group("/")
	if limiter != nil {
		invoke.Use(limiter.Middleware())
	}
	invoke.POST("/invoke", s.invoke)

	return s
}

// Handler exposes the router; used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", map[string]interface{}{"port": s.config.Port})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// invoke accepts one invocation event per request. The dispatcher never
// fails, so the HTTP status is 200 even for structured error responses;
// protocol errors live in the body, where the caller expects them.
func (s *Server) invoke(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, protocol.NewErrorBody(fmt.Sprintf("Internal error: read request body: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.InvokeTimeout)
	defer cancel()

	c.JSON(http.StatusOK, s.dispatcher.Dispatch(ctx, body))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
