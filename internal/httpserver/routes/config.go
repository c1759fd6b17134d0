package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/handlers"
)

func init() { Register(registerConfig) }

func registerConfig(r chi.Router, d deps.Deps) {
	r.Get("/config", handlers.GetConfig(d))
	r.Get("/export", handlers.Export(d))
	r.Post("/shortcuts/check", handlers.CheckShortcut(d))

	w := r.With(writeLimit(d))
	w.Put("/config", handlers.PutConfig(d))
	w.Post("/import", handlers.Import(d))
}
