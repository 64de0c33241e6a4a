package handlers

import (
	"dbconsole/core"

	"github.com/go-chi/chi/v5"
)

func RegisterGridRoutes(r chi.Router, svc *core.GridService) {
	r.Get("/grids/{table}", GetGridPageHandler(svc))
}
