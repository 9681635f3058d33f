package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

func init() { Register("proxy", registerProxy) }

// registerProxy mounts one route per vendor operation, same method and path.
func registerProxy(r chi.Router, d deps.Deps) {
	for _, op := range wapi.Operations() {
		r.Method(op.Method, op.Endpoint, handlers.Proxy(d, op))
	}
	r.Get("/instance/qrcode/image", handlers.QRCodeImage(d))
}
