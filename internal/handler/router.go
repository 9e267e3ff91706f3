package handler

import (
	"net/http"

	"github.com/kittipos/namecard-bff-go/internal/config"
	"github.com/kittipos/namecard-bff-go/internal/infra/observability"
	"github.com/kittipos/namecard-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services bundles everything the router serves.
type Services struct {
	Cards     *service.CardsService
	VCard     *service.VCardService
	Templates *service.TemplatesService
	Directory *service.DirectoryService
	Settings  *service.SettingsService
}

// NewRouter builds the HTTP router with all middleware and routes.
func NewRouter(cfg *config.Config, svcs Services, metrics *observability.Metrics, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", listCardsHandler(svcs.Cards, logger))
			r.Post("/", createCardHandler(svcs.Cards, logger))

			r.Route("/{cardId}", func(r chi.Router) {
				r.Get("/", getCardHandler(svcs.Cards, logger))
				r.Put("/", updateCardHandler(svcs.Cards, logger))
				r.Delete("/", deleteCardHandler(svcs.Cards, logger))
				r.Get("/vcard", downloadVCardHandler(svcs.VCard, logger))
				r.Get("/stats", getCardStatsHandler(svcs.Cards, logger))
				r.Get("/qr", cardQRHandler(svcs.Cards, cfg.PublicBaseURL, logger))
			})
		})

		// Public card page resolution by share slug.
		r.Get("/c/{slug}", getPublicCardHandler(svcs.Cards, logger))

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", listTemplatesHandler(svcs.Templates, logger))
			r.Post("/", createTemplateHandler(svcs.Templates, logger))
			r.Get("/{templateId}", getTemplateHandler(svcs.Templates, logger))
			r.Put("/{templateId}", updateTemplateHandler(svcs.Templates, logger))
			r.Delete("/{templateId}", deleteTemplateHandler(svcs.Templates, logger))
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/profile", getProfileHandler(svcs.Directory, logger))
			r.Put("/profile", updateProfileHandler(svcs.Directory, logger))
			r.Get("/addresses", listAddressesHandler(svcs.Directory, logger))
			r.Post("/addresses", createAddressHandler(svcs.Directory, logger))
		})
		r.Put("/addresses/{addressId}", updateAddressHandler(svcs.Directory, logger))
		r.Delete("/addresses/{addressId}", deleteAddressHandler(svcs.Directory, logger))

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", listSettingsHandler(svcs.Settings, logger))
			r.Get("/{key}", getSettingHandler(svcs.Settings, logger))
			r.Put("/{key}", upsertSettingHandler(svcs.Settings, logger))
		})

		r.Get("/stats/usage", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, metrics.GetUsageSnapshot())
		})
	})

	return r
}
