package api

import (
	"net/http"
	"os"
	"time"

	"dbconsole/api/router/handlers"
	"dbconsole/core"
	"dbconsole/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates the API router. All registered paths are relative to the
// /api base path.
func NewRouter(svc *core.GridService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	handlers.RegisterHealthRoutes(r)
	handlers.RegisterTableRoutes(r, svc)
	handlers.RegisterGridRoutes(r, svc)
	handlers.RegisterSettingsRoutes(r)
	r.Get("/swagger.json", swaggerHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("API SUB-ROUTER CATCH-ALL: Unhandled route relative to /api: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})
	return r
}

// NewServerHandler mounts the API under /api and serves staticDir (when it
// exists) for everything else.
func NewServerHandler(svc *core.GridService, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api", NewRouter(svc))
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(staticDir)))
			logger.Info("Serving static files from %s", staticDir)
		} else {
			logger.Warn("Static directory %s not found, only the API is served.", staticDir)
		}
	}
	return r
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Access(r.Method, r.URL.Path, status, time.Since(start).Milliseconds(), middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
