package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/wapi/internal/httpserver/mw"
)

func init() { Register("infra", registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	admin := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	admin.Get("/infra", handlers.Infra(d))
	admin.Post("/cache/clear", handlers.ClearCache(d))
}
