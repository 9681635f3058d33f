package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/logger"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers every failure the same way: HTTP 500 and an envelope
// carrying the error text.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	d.Logger.Warn("proxy request failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Success: false, Error: err.Error()})
}
