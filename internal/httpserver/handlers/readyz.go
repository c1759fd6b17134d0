package handlers

import (
	"context"
	"net/http"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz is ready once the storage area answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Storage == nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: "storage not initialized"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), infraPingTimeout)
		defer cancel()

		if err := d.Storage.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
