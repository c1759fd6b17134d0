package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/handlers"
)

func init() { Register(registerContent) }

func registerContent(r chi.Router, d deps.Deps) {
	r.Route("/content", func(r chi.Router) {
		r.Get("/field", handlers.Field(d))
		r.Post("/focus", handlers.Focus(d))
		r.Post("/blur", handlers.Blur(d))
		r.Post("/keydown", handlers.KeyDown(d))
		r.Post("/generate", handlers.Generate(d))
	})
}
