// Package qr turns the vendor's pairing QR payload into a PNG.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// ErrNoQRCode is returned when the payload carries nothing that looks like
// a QR code, e.g. because the instance is already paired.
var ErrNoQRCode = errors.New("no qr code in response")

var payloadKeys = []string{"qrcode", "qrCode", "qr", "base64", "code", "value"}

// Extract finds the QR value in a vendor response. It accepts a bare JSON
// string or an object with the value under a known key, optionally nested
// in "data".
func Extract(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", ErrNoQRCode
		}
		return s, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("unexpected qr code response: %w", err)
	}
	if v := lookup(doc); v != "" {
		return v, nil
	}
	if data, ok := doc["data"].(map[string]any); ok {
		if v := lookup(data); v != "" {
			return v, nil
		}
	}
	if data, ok := doc["data"].(string); ok && data != "" {
		return data, nil
	}
	return "", ErrNoQRCode
}

func lookup(doc map[string]any) string {
	for _, k := range payloadKeys {
		if v, ok := doc[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// PNG returns PNG bytes for the QR code in raw. A data URL is decoded as
// is; any other value is treated as the pairing string and encoded.
func PNG(raw json.RawMessage, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	value, err := Extract(raw)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(value, "data:image/") {
		i := strings.Index(value, ";base64,")
		if i < 0 {
			return nil, fmt.Errorf("unsupported qr code data url")
		}
		png, err := base64.StdEncoding.DecodeString(value[i+len(";base64,"):])
		if err != nil {
			return nil, fmt.Errorf("failed to decode qr code image: %w", err)
		}
		return png, nil
	}

	png, err := qrcode.Encode(value, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
