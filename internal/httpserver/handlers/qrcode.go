package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/qr"
)

// QRCodeImage renders the pairing QR code as a PNG.
func QRCodeImage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := d.Client.Call(r.Context(), "instance.qrcode", nil)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		png, err := qr.PNG(resp, d.QRSize)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
