package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
)

type checkShortcutRequest struct {
	Type     string          `json:"type"`
	Shortcut json.RawMessage `json:"shortcut"`
}

type checkShortcutResponse struct {
	Valid          bool             `json:"valid"`
	Shortcut       *domain.Shortcut `json:"shortcut,omitempty"`
	Formatted      string           `json:"formatted"`
	ReservedReason string           `json:"reserved_reason,omitempty"`
	Conflict       string           `json:"conflict,omitempty"`
	ConflictLabel  string           `json:"conflict_label,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// CheckShortcut validates a candidate binding for a data type the way the
// editor does before saving: structure, reserved browser shortcuts and
// conflicts with the other types. The shortcut is either an object or the
// textual form ("ctrl+shift+k").
func CheckShortcut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkShortcutRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		dataType, ok := domain.ParseDataType(req.Type)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown data type "+req.Type)
			return
		}

		candidate, err := parseCandidate(req.Shortcut)
		if err != nil {
			writeJSON(w, http.StatusOK, checkShortcutResponse{
				Formatted: domain.Format(nil),
				Error:     err.Error(),
			})
			return
		}

		resp := checkShortcutResponse{
			Shortcut:  &candidate,
			Formatted: domain.Format(&candidate),
			Valid:     candidate.IsValid(),
		}
		if !resp.Valid {
			resp.Error = "atalho precisa de um modificador e uma tecla"
			writeJSON(w, http.StatusOK, resp)
			return
		}

		if reason, reserved := domain.ReservedReason(candidate); reserved {
			resp.Valid = false
			resp.ReservedReason = reason
		}

		cfg, err := d.Settings.Load(r.Context())
		if err != nil {
			storageFailed(w, d.Logger, "load", err)
			return
		}
		if other, found := cfg.Items.FindConflict(candidate, dataType); found {
			resp.Valid = false
			resp.Conflict = other.String()
			resp.ConflictLabel = domain.LabelFor(other)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func parseCandidate(raw json.RawMessage) (domain.Shortcut, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return domain.ParseShortcut(text)
	}

	var s domain.Shortcut
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Shortcut{}, err
	}
	return s.Normalize(), nil
}
