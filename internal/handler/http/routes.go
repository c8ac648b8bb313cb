package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	router.Get("/healthz", h.health)
	router.Get("/version", h.getVersion)
	if h.deps.Metrics != nil {
		router.Handle("/metrics", h.deps.Metrics)
	}
	router.Get("/debug/status", h.status)
	router.Get("/debug/entries", h.entries)
	if h.deps.DeleteJournals != nil {
		router.Get("/debug/delete-journals", h.listDeleteJournals)
		router.Delete("/debug/delete-journals", h.purgeDeleteJournals)
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Post("/", h.createItem)
			r.Get("/{id}", h.getItem)
			r.Patch("/{id}", h.updateItem)
			r.Delete("/{id}", h.deleteItem)
			r.Post("/{id}/move", h.moveItem)
		})

		r.Post("/refresh", h.refresh)
		r.Put("/credentials", h.updateCredentials)

		r.Route("/encryption", func(r chi.Router) {
			r.Get("/", h.encryptionState)
			r.Put("/passphrase", h.setPassphrase)
			r.Post("/encrypt-everything", h.encryptEverything)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.withHashCheck)
			r.Post("/invalidations", h.pushInvalidations)
		})
		r.Put("/invalidations/state", h.setInvalidatorState)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
