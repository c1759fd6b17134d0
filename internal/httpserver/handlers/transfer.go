package handlers

import (
	"net/http"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/settings"
)

var contentTypes = map[settings.Format]string{
	settings.FormatJSON: "application/json",
	settings.FormatYAML: "application/yaml",
}

// Export downloads the stored configuration as JSON or YAML (?format=).
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := settings.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := d.Settings.Export(r.Context(), format)
		if err != nil {
			storageFailed(w, d.Logger, "export", err)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("Content-Disposition", `attachment; filename="mockdata-config.`+string(format)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// Import replaces the stored configuration with an uploaded document.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := settings.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if _, err := settings.Decode(data, format); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		saved, err := d.Settings.Import(r.Context(), data, format)
		if err != nil {
			writeSaveError(w, d, err)
			return
		}

		d.Logger.Info("config imported", logger.String("format", string(format)))
		writeJSON(w, http.StatusOK, saved)
	}
}
