package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dbconsole/core"
	"dbconsole/grid"
	"dbconsole/logger"

	"github.com/go-chi/chi/v5"
)

// parseGridParams reads current and pagesize; every other query parameter is a filter.
func parseGridParams(r *http.Request) (grid.Params, error) {
	var params grid.Params
	query := r.URL.Query()
	if s := query.Get(grid.ParamCurrent); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid %s '%s'", grid.ParamCurrent, s)
		}
		params.Page = page
	}
	if s := query.Get(grid.ParamPageSize); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size < 1 {
			return params, fmt.Errorf("invalid %s '%s'", grid.ParamPageSize, s)
		}
		params.PageSize = size
	}
	for key, values := range query {
		if key == grid.ParamCurrent || key == grid.ParamPageSize || len(values) == 0 || values[0] == "" {
			continue
		}
		if params.Filters == nil {
			params.Filters = make(map[string]string)
		}
		params.Filters[key] = values[0]
	}
	return params, nil
}

// GetGridPageHandler returns one page of a table as grid columns and records.
// Backend failures still answer 200; the message is in notice and the grid is empty.
// @Summary Get a grid page
// @Description Fetches one page from the monitoring backend and shapes it for the grid.
// @Tags Grids
// @Produce json
// @Param table path string true "Table name from /tables"
// @Param current query int false "Page number (1-based)"
// @Param pagesize query int false "Rows per page"
// @Success 200 {object} models.GridResponse
// @Failure 400 {object} models.ErrorResponse "Invalid paging parameters"
// @Failure 404 {object} models.ErrorResponse "Unknown table"
// @Router /grids/{table} [get]
func GetGridPageHandler(svc *core.GridService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := chi.URLParam(r, "table")
		params, err := parseGridParams(r)
		if err != nil {
			logger.Error("GetGridPageHandler: %v", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		resp, err := svc.Page(r.Context(), table, params)
		if err != nil {
			if errors.Is(err, core.ErrUnknownTable) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			logger.Error("GetGridPageHandler: Error loading table %s: %v", table, err)
			writeError(w, http.StatusInternalServerError, "Failed to load grid page")
			return
		}
		if resp.Notice != "" {
			logger.Info("GetGridPageHandler: table %s page %d answered with notice: %s", table, resp.Page, resp.Notice)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
