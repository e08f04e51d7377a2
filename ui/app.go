package ui

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"greenpulse/internal"
	"greenpulse/internal/dashboard"
	"greenpulse/internal/report"
)

// App serves the human-readable load report
type App struct {
	router *chi.Mux
	logger *internal.Logger

	mu   *sync.RWMutex
	dash *dashboard.Dashboard
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates the report application. mu guards dash and may be shared with
// a Server over the same dashboard; nil means the app owns the dashboard.
func NewApp(dash *dashboard.Dashboard, mu *sync.RWMutex, logger *internal.Logger) *App {
	if mu == nil {
		mu = &sync.RWMutex{}
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	app := &App{
		router: chi.NewRouter(),
		logger: logger,
		mu:     mu,
		dash:   dash,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/report.md", a.handleMarkdown)
}

// Handler returns the app's HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves the report until ctx is cancelled
func (a *App) Start(ctx context.Context, config Config) error {
	return serve(ctx, ":"+config.Port, a.router, a.logger, "[UI]")
}

func (a *App) summary() report.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return report.FromDashboard(a.dash)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	s := a.summary()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(report.Page(s.Title, report.Markdown(s))); err != nil {
		a.logger.Warn("[UI] write report: %v", err)
	}
}

func (a *App) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := w.Write(report.Markdown(a.summary())); err != nil {
		a.logger.Warn("[UI] write markdown: %v", err)
	}
}
