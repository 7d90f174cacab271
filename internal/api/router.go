package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/catalog"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/metrics"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/sessions"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(
	gw *store.Gateway,
	repo *sessions.Repository,
	cat *catalog.Catalog,
	m *metrics.Metrics,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	r.Use(Metrics(m))

	healthH := NewHealthHandler(gw)
	catalogH := NewCatalogHandler(cat)
	sessionH := NewSessionHandler(repo, m)
	poleH := NewPoleHandler(repo, cat, m)
	previewH := NewPreviewHandler(repo, m)

	r.Get("/health", healthH.Health)
	r.Method("GET", "/metrics", m.Handler())
	r.Get("/catalog", catalogH.List)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", sessionH.List)
		r.Post("/", sessionH.Create)

		r.Get("/current", sessionH.Current)
		r.Put("/current", sessionH.Select)
		r.Delete("/current", sessionH.ClearCurrent)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionH.Get)
			r.Delete("/", sessionH.Delete)
			r.Get("/preview", previewH.Preview)

			r.Post("/poles", poleH.AddPole)
			r.Delete("/poles/{poleId}", poleH.DeletePole)
			r.Get("/poles/{poleId}/elements", poleH.Elements)
			r.Post("/poles/{poleId}/elements", poleH.AddElement)
			r.Delete("/poles/{poleId}/elements/{elementId}", poleH.DeleteElement)
		})
	})

	return r
}
