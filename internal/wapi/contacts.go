package wapi

import (
	"context"
	"encoding/json"
)

func (s *Service) GetContact(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.Call(ctx, "contact.get", map[string]any{"phone": phone})
}

func (s *Service) GetContacts(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "contact.getAll", nil)
}

// CheckContact asks whether phone is registered on WhatsApp.
func (s *Service) CheckContact(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.Call(ctx, "contact.check", map[string]any{"phone": phone})
}

func (s *Service) SaveContact(ctx context.Context, phone, name string) (json.RawMessage, error) {
	return s.Call(ctx, "contact.save", map[string]any{"phone": phone, "name": name})
}

func (s *Service) GetAbout(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.Call(ctx, "contact.getAbout", map[string]any{"phone": phone})
}
