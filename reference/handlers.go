package reference

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dbconsole/logger"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Msg     string `json:"msg,omitempty"`
}

// NewRouter serves the monitoring backend's envelope contract from src.
func NewRouter(src *Source) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api/v1/tables/{name}", func(r chi.Router) {
		r.Get("/", tableHandler(src))
		r.Post("/", tableHandler(src))
		r.Get("/count", countHandler(src))
		r.Post("/count", countHandler(src))
	})
	return r
}

func writeEnvelope(w http.ResponseWriter, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("reference: Error encoding response: %v", err)
	}
}

func failure(err error) envelope {
	if errors.Is(err, ErrUnknownTable) {
		return envelope{Msg: err.Error()}
	}
	return envelope{Msg: "query failed: " + err.Error()}
}

// pageParams reads current/pagesize from the query string or a JSON body.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("current"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pagesize"))
	if r.Method == http.MethodPost && r.Body != nil {
		var body struct {
			Current  int `json:"current"`
			PageSize int `json:"pagesize"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			if body.Current > 0 {
				page = body.Current
			}
			if body.PageSize > 0 {
				size = body.PageSize
			}
		}
	}
	return page, size
}

func tableHandler(src *Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		page, size := pageParams(r)
		payload, err := src.Page(r.Context(), name, page, size)
		if err != nil {
			logger.Debug("reference: table %s page %d failed: %v", name, page, err)
			writeEnvelope(w, failure(err))
			return
		}
		writeEnvelope(w, envelope{Success: true, Data: payload})
	}
}

func countHandler(src *Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		n, err := src.Count(r.Context(), name)
		if err != nil {
			writeEnvelope(w, failure(err))
			return
		}
		writeEnvelope(w, envelope{Success: true, Data: n})
	}
}
