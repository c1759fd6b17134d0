package handlers

import (
	"errors"
	"net/http"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/settings"
)

// GetConfig returns the sanitized stored configuration.
func GetConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := d.Settings.Load(r.Context())
		if err != nil {
			storageFailed(w, d.Logger, "load", err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

// PutConfig saves the configuration sent by the editor. Malformed fields are
// repaired; two types sharing a shortcut yield 409 naming both.
func PutConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw any
		if !decodeJSON(w, r, &raw) {
			return
		}

		saved, err := d.Settings.Save(r.Context(), domain.SanitizeFields(raw))
		if err != nil {
			writeSaveError(w, d, err)
			return
		}

		d.Logger.Info("config saved",
			logger.Bool("shortcuts_enabled", saved.KeyboardShortcutsEnabled))
		writeJSON(w, http.StatusOK, saved)
	}
}

func writeSaveError(w http.ResponseWriter, d deps.Deps, err error) {
	var dup *settings.DuplicateShortcutError
	if errors.As(err, &dup) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:  err.Error(),
			First:  dup.First.String(),
			Second: dup.Second.String(),
		})
		return
	}
	storageFailed(w, d.Logger, "save", err)
}
