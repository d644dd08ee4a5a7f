package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/StallReview/internal/service"
	"github.com/utafrali/StallReview/pkg/health"
	"github.com/utafrali/StallReview/pkg/middleware"
)

// Services groups the business services the router exposes.
type Services struct {
	Stalls  *service.StallService
	Items   *service.ItemService
	Users   *service.UserService
	Reviews *service.ReviewService
}

// RouterConfig holds the cross-cutting settings of the router.
type RouterConfig struct {
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
	// Metrics is optional; when nil no request metrics are recorded.
	Metrics *middleware.HTTPMetrics
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(svc Services, healthHandler *health.Handler, logger *slog.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	// Health and operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	requireAuth := middleware.Auth(svc.Users.ResolveToken)
	jsonBody := middleware.ContentTypeJSON

	stallHandler := NewStallHandler(svc.Stalls, logger)
	r.Route("/stalls", func(r chi.Router) {
		r.With(jsonBody).Post("/", stallHandler.Create)
		r.Get("/", stallHandler.List)
		r.Get("/by-name/{stall_name}", stallHandler.GetByName)
		r.Get("/by-owner/{owner_name}", stallHandler.GetByOwner)
		r.Get("/{stall_id}", stallHandler.Get)
		r.With(jsonBody).Patch("/{stall_id}/thumbnail", stallHandler.UpdateThumbnail)
	})

	itemHandler := NewItemHandler(svc.Items, logger)
	r.Route("/items", func(r chi.Router) {
		r.With(jsonBody).Post("/", itemHandler.Create)
		r.Get("/", itemHandler.List)
		r.Get("/{stall_id}", itemHandler.ListByStall)
	})

	userHandler := NewUserHandler(svc.Users, logger)
	r.Route("/users", func(r chi.Router) {
		r.With(jsonBody).Post("/", userHandler.Register)
		r.Get("/", userHandler.List)
		r.With(requireAuth).Get("/me", userHandler.Me)
	})
	r.With(middleware.CacheControl(middleware.NoStore)).Post("/token", userHandler.Token)

	reviewHandler := NewReviewHandler(svc.Reviews, logger)
	r.Route("/reviews", func(r chi.Router) {
		r.With(requireAuth, jsonBody).Post("/", reviewHandler.Create)
		r.Get("/", reviewHandler.List)
		r.Get("/top-ranking", reviewHandler.TopRanking)
		r.Get("/average/{stall_id}", reviewHandler.Average)
		r.Get("/stall/{stall_id}", reviewHandler.ListByStall)
		r.Get("/user/{user_id}", reviewHandler.ListByUser)
		r.With(requireAuth).Delete("/{review_id}", reviewHandler.Delete)
	})

	return r
}
