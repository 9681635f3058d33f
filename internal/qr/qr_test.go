package qr

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare string", `"2@abc,def"`, "2@abc,def"},
		{"qrcode key", `{"qrcode":"2@abc"}`, "2@abc"},
		{"nested data", `{"success":true,"data":{"qr":"2@xyz"}}`, "2@xyz"},
		{"data string", `{"data":"2@str"}`, "2@str"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(json.RawMessage(tt.raw))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := Extract(json.RawMessage(`{"connected":true}`))
	require.ErrorIs(t, err, ErrNoQRCode)
}

func TestPNGEncodesPairingString(t *testing.T) {
	png, err := PNG(json.RawMessage(`{"qrcode":"2@pairing-ref,key,secret"}`), 0)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestPNGDecodesDataURL(t *testing.T) {
	image := append(append([]byte{}, pngMagic...), 0x01, 0x02)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	raw, err := json.Marshal(map[string]string{"base64": dataURL})
	require.NoError(t, err)

	png, err := PNG(raw, 128)
	require.NoError(t, err)
	require.Equal(t, image, png)
}
