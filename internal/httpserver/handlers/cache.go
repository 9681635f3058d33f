package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/logger"
)

type clearCacheResponse struct {
	Success bool `json:"success"`
}

// ClearCache drops every cached vendor response.
func ClearCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Client.ClearCache(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("response cache cleared via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, clearCacheResponse{Success: true})
	}
}
