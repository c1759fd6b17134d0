package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	registry []entry
	streams  []entry
)

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterStream registers long-lived routes. They are mounted outside the
// request timeout.
func RegisterStream(reg Registrar, mws ...Middleware) {
	streams = append(streams, entry{reg: reg, mws: mws})
}

// RegisterAll mounts the regular routes. Called once from server.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	mount(r, d, registry)
}

// RegisterStreams mounts the long-lived routes.
func RegisterStreams(r chi.Router, d deps.Deps) {
	mount(r, d, streams)
}

func mount(r chi.Router, d deps.Deps, entries []entry) {
	for _, e := range entries {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		sub := r.With(e.mws...) // apply per-route middlewares
		e.reg(sub, d)
	}
}

// writeLimit returns d.WriteLimit or a pass-through.
func writeLimit(d deps.Deps) Middleware {
	if d.WriteLimit != nil {
		return d.WriteLimit
	}
	return func(next http.Handler) http.Handler { return next }
}
