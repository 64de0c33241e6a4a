package handlers

import (
	"dbconsole/core"

	"github.com/go-chi/chi/v5"
)

func RegisterTableRoutes(r chi.Router, svc *core.GridService) {
	r.Get("/tables", ListTablesHandler(svc))
}
