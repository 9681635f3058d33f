package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
)

type healthzResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime_seconds"`
	Version   string  `json:"version,omitempty"`
	Commit    string  `json:"commit,omitempty"`
	BuildDate string  `json:"build_date,omitempty"`
	GoVersion string  `json:"go_version,omitempty"`
}

// Healthz is process liveness only. It never calls the vendor.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	build := healthzResponse{
		Status:    "ok",
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := build
		resp.Uptime = now().Sub(d.StartTime).Seconds()
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}
