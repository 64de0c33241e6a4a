package handlers

import (
	"net/http"

	"dbconsole/core"
)

// ListTablesHandler returns the table catalog.
// @Summary List tables
// @Description Lists every table the grid can show, sorted by name.
// @Tags Tables
// @Produce json
// @Success 200 {array} models.TableSpec
// @Router /tables [get]
func ListTablesHandler(svc *core.GridService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Tables())
	}
}
