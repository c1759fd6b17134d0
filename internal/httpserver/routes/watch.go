package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/handlers"
)

func init() { RegisterStream(registerWatch) }

func registerWatch(r chi.Router, d deps.Deps) {
	r.Get("/watch", handlers.Watch(d))
}
