package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/redact"
)

func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", redact.ErrorAttr(err))
		}
	})

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Group(func(r chi.Router) {
		if app.jwtService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate)
		}
		taskHandler.RegisterRoutes(r)
	})

	return r
}
