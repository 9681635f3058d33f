package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
}

// Readyz reports ready once the client exists. Instance connectivity is
// informational: the proxy still forwards while the instance is offline.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Client == nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Status: "starting"})
			return
		}
		state := d.Client.ConnectionState()
		writeJSON(w, http.StatusOK, readyzResponse{
			Ready:     true,
			Connected: state.Connected,
			Status:    state.StatusLabel,
		})
	}
}
