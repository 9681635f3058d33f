package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

type componentStatus struct {
	OK        bool             `json:"ok"`
	Status    string           `json:"status,omitempty"`
	LastCheck string           `json:"last_check,omitempty"`
	Mode      string           `json:"mode,omitempty"`
	Impact    string           `json:"impact,omitempty"`
	Error     string           `json:"error,omitempty"`
	Cache     *wapi.CacheStats `json:"cache,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"instance": instanceStatus(d),
			"cache":    cacheStatus(d),
		}
		if d.CacheStore != nil {
			components["redis"] = checkRedis(r.Context(), d)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func instanceStatus(d deps.Deps) componentStatus {
	state := d.Client.ConnectionState()
	status := componentStatus{
		OK:     state.Connected,
		Status: state.StatusLabel,
	}
	if state.LastCheck.IsZero() {
		status.LastCheck = "never"
	} else {
		status.LastCheck = state.LastCheck.Format(time.RFC3339)
	}
	if state.LastError != nil {
		status.Error = state.LastError.Error()
	}
	return status
}

func cacheStatus(d deps.Deps) componentStatus {
	stats := d.Client.CacheStats()
	return componentStatus{
		OK:    true,
		Mode:  stats.Backend,
		Cache: &stats,
	}
}

// determineMode is "critical" when the instance is not connected,
// "degraded" when only the shared cache is down.
func determineMode(components map[string]componentStatus) string {
	if instance, ok := components["instance"]; ok && !instance.OK {
		return "critical"
	}
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "degraded"
	}
	return "operational"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.CacheStore.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "responses-not-cached",
			Error:  err.Error(),
		}
	}
	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "shared-response-cache",
	}
}
