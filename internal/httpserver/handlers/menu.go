package handlers

import (
	"net/http"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/menu"
)

type menuResponse struct {
	Entries     []menu.Entry `json:"entries"`
	Rebuilds    int          `json:"rebuilds"`
	LastRebuild string       `json:"last_rebuild,omitempty"`
	Pending     int          `json:"pending"`
}

// Menu returns the context menu as the background context last built it.
func Menu(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx := d.Menu.Index()
		last, rebuilds := idx.LastRebuild()

		resp := menuResponse{
			Entries:  idx.All(),
			Rebuilds: rebuilds,
			Pending:  d.Menu.Pending(),
		}
		if !last.IsZero() {
			resp.LastRebuild = last.Format(time.RFC3339)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type rebuildResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// RebuildMenu queues a rebuild from the stored configuration.
func RebuildMenu(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Menu.Trigger(menu.ReasonManual, nil) {
			writeError(w, http.StatusServiceUnavailable, "menu queue stopped")
			return
		}
		d.Logger.Info("manual menu rebuild queued")
		writeJSON(w, http.StatusAccepted, rebuildResponse{
			Status: "queued",
			Reason: menu.ReasonManual,
		})
	}
}

type menuClickRequest struct {
	ID string `json:"id"`
}

type generateResponse struct {
	Type   string `json:"type"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// ClickMenu forwards a menu click to the content context, the way the
// background context messages the tab.
func ClickMenu(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req menuClickRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		dataType, ok := menu.ParseMenuID(req.ID)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown menu item "+req.ID)
			return
		}

		res := d.Content.Generate(dataType)
		writeJSON(w, http.StatusOK, generateResponse{
			Type:   dataType.String(),
			OK:     res.OK,
			Reason: res.Reason,
		})
	}
}
