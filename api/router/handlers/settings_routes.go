package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterSettingsRoutes(r chi.Router) {
	r.Route("/settings/session", func(r chi.Router) {
		r.Get("/", GetSessionSettingsHandler)
		r.Put("/", SetSessionSettingsHandler)
		r.Delete("/", LogoutHandler)
	})

	r.Post("/settings/table-layouts/reset", ResetTableLayoutsHandler)

	r.Route("/settings/table-layouts", func(r chi.Router) {
		r.Get("/", GetTableLayoutsHandler)
		r.Put("/", SetTableLayoutsHandler)
		r.Post("/", SetTableLayoutsHandler)
	})
}
