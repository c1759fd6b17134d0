package handlers

import (
	"net/http"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/content"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
)

type focusRequest struct {
	Name     string `json:"name"`
	ReadOnly bool   `json:"read_only"`
}

type fieldResponse struct {
	Focused    bool     `json:"focused"`
	Name       string   `json:"name,omitempty"`
	ReadOnly   bool     `json:"read_only"`
	Filled     []string `json:"filled"`
	DateFormat string   `json:"date_format,omitempty"`
}

// Focus points the content context at a new field.
func Focus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req focusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		field := content.NewField(req.Name)
		field.ReadOnly = req.ReadOnly
		d.Content.Focus(field)
		writeJSON(w, http.StatusOK, describeField(field))
	}
}

// Blur clears the focused field.
func Blur(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Content.Focus(nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Field reports the focused field and what was written to it.
func Field(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, _ := d.Content.Target().(*content.Field)
		writeJSON(w, http.StatusOK, describeField(field))
	}
}

type keydownResponse struct {
	Handled bool   `json:"handled"`
	Type    string `json:"type,omitempty"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
}

// KeyDown feeds a key event to the content context. Handled tells the page
// to swallow the event.
func KeyDown(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev content.KeyEvent
		if !decodeJSON(w, r, &ev) {
			return
		}

		dataType, res, handled := d.Content.Press(ev)
		if !handled {
			writeJSON(w, http.StatusOK, keydownResponse{})
			return
		}
		writeJSON(w, http.StatusOK, keydownResponse{
			Handled: true,
			Type:    dataType.String(),
			OK:      res.OK,
			Reason:  res.Reason,
		})
	}
}

type generateRequest struct {
	Type string `json:"type"`
}

// Generate fills the focused field with the requested data type.
func Generate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		dataType, ok := domain.ParseDataType(req.Type)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown data type "+req.Type)
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

func describeField(field *content.Field) fieldResponse {
	if field == nil {
		return fieldResponse{Filled: []string{}}
	}

	filled := field.Filled()
	resp := fieldResponse{
		Focused:  true,
		Name:     field.Name,
		ReadOnly: field.ReadOnly,
		Filled:   make([]string, len(filled)),
	}
	for i, t := range filled {
		resp.Filled[i] = t.String()
	}
	if len(filled) > 0 {
		resp.DateFormat = string(field.LastOptions().DateFormat)
	}
	return resp
}
