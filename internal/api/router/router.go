package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakhurst/lessonbook/internal/appointments"
	"github.com/oakhurst/lessonbook/internal/availability"
	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
	httpmiddleware "github.com/oakhurst/lessonbook/internal/http/middleware"
	"github.com/oakhurst/lessonbook/internal/reports"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	AppointmentsHandler *appointments.Handler
	CustomersHandler    *customers.Handler
	CatalogHandler      *catalog.Handler
	ReportsHandler      *reports.Handler
	MetricsHandler      http.Handler

	JWTSecret string
	OwnerID   string

	// Requests per second per IP; 0 disables rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.CatalogHandler != nil {
			public.Get("/catalog/types", cfg.CatalogHandler.ListTypes)
		}
		if cfg.AvailabilityHandler != nil {
			public.Get("/availability/slots", cfg.AvailabilityHandler.GetSlots)
		}
	})

	// Authenticated customer endpoints
	if cfg.AppointmentsHandler != nil {
		r.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.Auth(cfg.JWTSecret))
			authed.Post("/appointments", cfg.AppointmentsHandler.Book)
			authed.Get("/appointments/mine", cfg.AppointmentsHandler.ListMine)
			authed.Post("/appointments/{id}/cancel", cfg.AppointmentsHandler.Cancel)
			authed.Get("/appointments/{id}/cancellation", cfg.AppointmentsHandler.CancellationAdvisory)
		})
	}

	// Owner endpoints
	r.Route("/owner", func(owner chi.Router) {
		owner.Use(httpmiddleware.Auth(cfg.JWTSecret))
		owner.Use(httpmiddleware.RequireOwner(cfg.OwnerID))

		if cfg.AppointmentsHandler != nil {
			owner.Get("/appointments", cfg.AppointmentsHandler.ListRange)
			owner.Post("/appointments/{id}/paid", cfg.AppointmentsHandler.SetPaid)
		}
		if cfg.AvailabilityHandler != nil {
			owner.Route("/availability", func(av chi.Router) {
				av.Get("/weekly", cfg.AvailabilityHandler.ListWeekly)
				av.Put("/weekly", cfg.AvailabilityHandler.ReplaceWeekly)
				av.Get("/overrides", cfg.AvailabilityHandler.ListOverrides)
				av.Post("/overrides", cfg.AvailabilityHandler.SetOverride)
				av.Delete("/overrides/{id}", cfg.AvailabilityHandler.DeleteOverride)
			})
		}
		if cfg.CustomersHandler != nil {
			owner.Route("/customers", func(cu chi.Router) {
				cu.Get("/", cfg.CustomersHandler.List)
				cu.Post("/", cfg.CustomersHandler.Create)
				cu.Get("/{id}", cfg.CustomersHandler.Get)
				cu.Put("/{id}/discount", cfg.CustomersHandler.SetDiscount)
			})
		}
		if cfg.CatalogHandler != nil {
			owner.Get("/policy", cfg.CatalogHandler.GetPolicy)
			owner.Put("/policy", cfg.CatalogHandler.SetPolicy)
		}
		if cfg.ReportsHandler != nil {
			owner.Get("/reports/payments", cfg.ReportsHandler.Summary)
			owner.Get("/reports/projection", cfg.ReportsHandler.Projection)
		}
	})

	return r
}
