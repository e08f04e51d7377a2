package ui

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"greenpulse/internal"
	"greenpulse/internal/dashboard"
	apperrors "greenpulse/internal/errors"
	"greenpulse/internal/loader"
)

// ReloadFunc re-reads the configured sources
type ReloadFunc func(ctx context.Context) (*loader.Bundle, error)

// Server exposes the dashboard's derived views as a JSON API
type Server struct {
	router *gin.Engine
	logger *internal.Logger
	reload ReloadFunc

	// dash is not safe for concurrent use; every handler goes through mu
	mu   sync.RWMutex
	dash *dashboard.Dashboard
}

// NewServer creates a server over dash. reload may be nil, in which case
// POST /api/reload answers 501.
func NewServer(dash *dashboard.Dashboard, reload ReloadFunc, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Server{
		router: gin.New(),
		logger: logger,
		reload: reload,
		dash:   dash,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/health", s.handleHealth)

	// Derived views
	api.GET("/series", s.handleSeries)
	api.GET("/bands", s.handleBands)
	api.GET("/baseline", s.handleBaseline)
	api.GET("/trends", s.handleTrends)
	api.GET("/extent", s.handleExtent)
	api.GET("/regions", s.handleRegions)
	api.GET("/snapshot", s.handleBarSnapshot)
	api.GET("/ingest", s.handleIngestReport)

	// Point queries
	api.GET("/resolve", s.handleResolve)
	api.GET("/tooltip", s.handleTooltip)

	// View state
	api.GET("/state", s.handleState)
	api.POST("/visibility/:category/toggle", s.handleToggle)
	api.POST("/hover/:category", s.handleHoverEnter)
	api.DELETE("/hover", s.handleHoverLeave)
	api.POST("/events", s.handleEvent)

	api.POST("/reload", s.handleReload)
}

// Start serves on port until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, port string) error {
	return serve(ctx, ":"+port, s.router, s.logger, "[Server]")
}

// serve runs handler on addr until ctx is cancelled
func serve(ctx context.Context, addr string, handler http.Handler, logger *internal.Logger, tag string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("%s listening on %s", tag, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("%s shutting down", tag)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// statusFor maps an AppError code to an HTTP status
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidationError:
		return http.StatusUnprocessableEntity
	case apperrors.CodeSourceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

// ReportApp returns a report App over the same dashboard and lock
func (s *Server) ReportApp() *App {
	return NewApp(s.dash, &s.mu, s.logger)
}
