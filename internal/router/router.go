package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/mathieu-neron/tubestats/internal/handler"
	"github.com/mathieu-neron/tubestats/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analysis *handler.AnalysisHandler
	History  *handler.HistoryHandler
	Export   *handler.ExportHandler
	Health   *handler.HealthHandler
}

// Limiters groups the per-route rate limiters.
type Limiters struct {
	Analysis     *middleware.RateLimiter
	Search       *middleware.RateLimiter
	Benchmark    *middleware.RateLimiter
	HistoryWrite *middleware.RateLimiter
	Export       *middleware.RateLimiter
}

// DefaultLimiters returns the production rate limits.
func DefaultLimiters() *Limiters {
	return &Limiters{
		Analysis:     middleware.NewAnalysisRateLimiter(),
		Search:       middleware.NewSearchRateLimiter(),
		Benchmark:    middleware.NewBenchmarkRateLimiter(),
		HistoryWrite: middleware.NewHistoryWriteRateLimiter(),
		Export:       middleware.NewExportRateLimiter(),
	}
}

// Stop ends the limiters' cleanup goroutines.
func (l *Limiters) Stop() {
	for _, rl := range []*middleware.RateLimiter{l.Analysis, l.Search, l.Benchmark, l.HistoryWrite, l.Export} {
		rl.Stop()
	}
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
// Rate limiters run ahead of the route handler.
func Setup(app *fiber.App, h *Handlers, l *Limiters, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (outside the API group, no rate limits)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	// Keyword routes
	api.Get("/keywords/analysis", l.Analysis.Handler(), h.Analysis.KeywordAnalysis)
	api.Get("/keywords/analysis.csv", l.Export.Handler(), h.Export.KeywordCSV)

	// Channel routes (search before :channelId)
	api.Get("/channels/search", l.Search.Handler(), h.Analysis.SearchChannels)
	api.Get("/channels/:channelId/analysis", l.Analysis.Handler(), h.Analysis.ChannelAnalysis)
	api.Get("/channels/:channelId/analysis.csv", l.Export.Handler(), h.Export.ChannelCSV)
	api.Post("/channels/:channelId/history", l.HistoryWrite.Handler(), h.Analysis.SaveChannel)

	// History routes
	api.Get("/history", h.History.List)
	api.Delete("/history", l.HistoryWrite.Handler(), h.History.Clear)

	// Benchmark routes
	api.Get("/benchmark", l.Benchmark.Handler(), h.Analysis.Benchmark)
}
