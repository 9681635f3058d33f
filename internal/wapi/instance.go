package wapi

import (
	"context"
	"encoding/json"
)

// Status returns the instance status. It goes through the cache like any
// other read; the health poller bypasses it.
func (s *Service) Status(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "instance.status", nil)
}

func (s *Service) Connect(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "instance.connect", nil)
}

func (s *Service) Disconnect(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "instance.disconnect", nil)
}

func (s *Service) Restart(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "instance.restart", nil)
}

func (s *Service) Logout(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "instance.logout", nil)
}

func (s *Service) QRCode(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "instance.qrcode", nil)
}
