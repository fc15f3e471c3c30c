// Package server exposes the form machine over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/karbonfx/leadform/internal/errors"
	"github.com/karbonfx/leadform/internal/form"
	"github.com/karbonfx/leadform/internal/idempotency"
	"github.com/karbonfx/leadform/internal/lifecycle"
	"github.com/karbonfx/leadform/internal/middleware"
)

// Options collects the collaborators the HTTP layer needs.
type Options struct {
	Machine     *form.Machine
	Errors      *apperrors.Handler
	Probes      lifecycle.HealthChecker
	RateLimit   *middleware.RateLimitMiddleware
	Idempotency idempotency.Manager
	Log         *slog.Logger
	AppEnv      string
}

// Server routes form API requests to the machine.
type Server struct {
	engine  *gin.Engine
	machine *form.Machine
	errs    *apperrors.Handler
	probes  lifecycle.HealthChecker
	log     *slog.Logger
}

// New builds the gin engine with the full middleware chain and routes.
func New(opts Options) *Server {
	if opts.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		engine:  gin.New(),
		machine: opts.Machine,
		errs:    opts.Errors,
		probes:  opts.Probes,
		log:     log,
	}

	s.engine.Use(
		gin.Recovery(),
		middleware.Correlation(),
		middleware.Logging(log),
		middleware.Metrics(),
	)

	s.engine.GET("/healthz", s.handleLiveness)
	s.engine.GET("/readyz", s.handleReadiness)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	if opts.RateLimit != nil {
		v1.Use(opts.RateLimit.Global())
	}

	v1.POST("/sessions", s.handleCreateSession)
	v1.GET("/sessions/:id", s.handleGetSession)
	v1.POST("/sessions/:id/fields", s.handleUpdateField)
	v1.POST("/sessions/:id/back", s.handleGoBack)

	submits := v1.Group("")
	if opts.RateLimit != nil {
		submits.Use(opts.RateLimit.Submit())
	}
	if opts.Idempotency != nil {
		submits.Use(middleware.Idempotency(opts.Idempotency, log))
	}
	submits.POST("/sessions/:id/step1", s.handleSubmitStep1)
	submits.POST("/sessions/:id/step2", s.handleSubmitStep2)

	return s
}

// Handler returns the engine as a plain http.Handler for the server wrapper.
func (s *Server) Handler() http.Handler {
	return s.engine
}
