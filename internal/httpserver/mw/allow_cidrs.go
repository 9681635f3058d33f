package mw

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/wapi/internal/logger"
	"github.com/MrSnakeDoc/wapi/internal/utils"
)

// AllowOnlyCIDRS guards the admin routes. An empty list lets everyone in.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}
	log.Debug("admin routes restricted",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("admin route rejected",
					logger.String("path", r.URL.Path),
					logger.String("client_ip", ip))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
