package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
)

// maxBodyBytes caps request bodies; a config is a few kilobytes.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string `json:"error"`
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// storageFailed reports a storage error to the client and the log.
func storageFailed(w http.ResponseWriter, log logger.Logger, op string, err error) {
	log.Error("storage operation failed",
		logger.String("op", op),
		logger.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("body larger than %d bytes", tooLarge.Limit)
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}

// decodeJSON reads a JSON body into v. It writes the 400 itself and reports
// false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}
