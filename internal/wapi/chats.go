package wapi

import (
	"context"
	"encoding/json"
)

func (s *Service) GetChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.Call(ctx, "chat.get", map[string]any{"phone": phone})
}

func (s *Service) GetChats(ctx context.Context) (json.RawMessage, error) {
	return s.Call(ctx, "chat.getAll", nil)
}

func (s *Service) ArchiveChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.chatAction(ctx, "chat.archive", phone)
}

func (s *Service) UnarchiveChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.chatAction(ctx, "chat.unarchive", phone)
}

func (s *Service) ClearChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.chatAction(ctx, "chat.clear", phone)
}

func (s *Service) DeleteChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.chatAction(ctx, "chat.delete", phone)
}

func (s *Service) PinChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.chatAction(ctx, "chat.pin", phone)
}

func (s *Service) UnpinChat(ctx context.Context, phone string) (json.RawMessage, error) {
	return s.chatAction(ctx, "chat.unpin", phone)
}

func (s *Service) chatAction(ctx context.Context, name, phone string) (json.RawMessage, error) {
	return s.Call(ctx, name, map[string]any{"phone": phone})
}
