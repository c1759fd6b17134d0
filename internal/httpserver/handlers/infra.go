package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
)

const infraPingTimeout = 2 * time.Second

type componentStatus struct {
	OK          bool   `json:"ok"`
	Backend     string `json:"backend,omitempty"`
	Items       *int   `json:"items,omitempty"`
	Rebuilds    *int   `json:"rebuilds,omitempty"`
	Pending     *int   `json:"pending,omitempty"`
	LastRebuild string `json:"last_rebuild,omitempty"`
	Context     string `json:"context,omitempty"`
	Shortcuts   *bool  `json:"shortcuts_enabled,omitempty"`
	Focused     *bool  `json:"focused,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the storage backend, the background menu and
// the content context.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage": checkStorage(r.Context(), d),
			"menu":    menuStatus(d),
			"content": contentStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode is "critical" when settings cannot be read, "degraded" when
// the menu has never been built and "ok" otherwise.
func determineMode(components map[string]componentStatus) string {
	if storage, exists := components["storage"]; exists && !storage.OK {
		return "critical"
	}
	if m, exists := components["menu"]; exists && !m.OK {
		return "degraded"
	}
	return "ok"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	status := componentStatus{Backend: d.StorageBackend}
	if d.Storage == nil {
		status.Error = "storage not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, infraPingTimeout)
	defer cancel()

	if err := d.Storage.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.OK = true
	return status
}

func menuStatus(d deps.Deps) componentStatus {
	idx := d.Menu.Index()
	last, rebuilds := idx.LastRebuild()
	items := max(idx.Count()-1, 0)
	pending := d.Menu.Pending()

	status := componentStatus{
		OK:          rebuilds > 0,
		Items:       &items,
		Rebuilds:    &rebuilds,
		Pending:     &pending,
		LastRebuild: "never",
	}
	if !last.IsZero() {
		status.LastRebuild = last.Format(time.RFC3339)
	}
	return status
}

func contentStatus(d deps.Deps) componentStatus {
	cfg := d.Content.Config()
	focused := d.Content.Target() != nil
	return componentStatus{
		OK:        true,
		Context:   d.Content.Name(),
		Shortcuts: &cfg.KeyboardShortcutsEnabled,
		Focused:   &focused,
	}
}
