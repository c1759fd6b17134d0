package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/handlers"
)

func init() { Register(registerMenu) }

func registerMenu(r chi.Router, d deps.Deps) {
	r.Get("/menu", handlers.Menu(d))
	r.Post("/menu/click", handlers.ClickMenu(d))
	r.With(writeLimit(d)).Post("/menu/rebuild", handlers.RebuildMenu(d))
}
