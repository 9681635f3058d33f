package wapi

import (
	"context"
	"encoding/json"
)

type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
	Address   string
}

type ContactCard struct {
	Name  string
	Phone string
}

type Button struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

func (s *Service) SendText(ctx context.Context, phone, message string, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendText", map[string]any{
		"phone":   phone,
		"message": message,
		"options": withOptions(opts),
	})
}

// SendImage sends image, a URL or base64 payload, with an optional caption.
func (s *Service) SendImage(ctx context.Context, phone, image, caption string, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendImage", map[string]any{
		"phone":   phone,
		"image":   image,
		"caption": caption,
		"options": withOptions(opts),
	})
}

func (s *Service) SendDocument(ctx context.Context, phone, document, fileName string, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendDocument", map[string]any{
		"phone":    phone,
		"document": document,
		"fileName": fileName,
		"options":  withOptions(opts),
	})
}

func (s *Service) SendAudio(ctx context.Context, phone, audio string, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendAudio", map[string]any{
		"phone":   phone,
		"audio":   audio,
		"options": withOptions(opts),
	})
}

func (s *Service) SendVideo(ctx context.Context, phone, video, caption string, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendVideo", map[string]any{
		"phone":   phone,
		"video":   video,
		"caption": caption,
		"options": withOptions(opts),
	})
}

func (s *Service) SendLocation(ctx context.Context, phone string, loc Location, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendLocation", map[string]any{
		"phone":     phone,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"name":      loc.Name,
		"address":   loc.Address,
		"options":   withOptions(opts),
	})
}

func (s *Service) SendContact(ctx context.Context, phone string, card ContactCard, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendContact", map[string]any{
		"phone":        phone,
		"contactName":  card.Name,
		"contactPhone": card.Phone,
		"options":      withOptions(opts),
	})
}

func (s *Service) SendButton(ctx context.Context, phone, message string, buttons []Button, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendButton", map[string]any{
		"phone":   phone,
		"message": message,
		"buttons": buttons,
		"options": withOptions(opts),
	})
}

func (s *Service) SendList(ctx context.Context, phone, message, buttonLabel string, sections []ListSection, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendList", map[string]any{
		"phone":       phone,
		"message":     message,
		"buttonLabel": buttonLabel,
		"sections":    sections,
		"options":     withOptions(opts),
	})
}

// SendReply quotes messageID in the reply.
func (s *Service) SendReply(ctx context.Context, phone, message, messageID string, opts Options) (json.RawMessage, error) {
	return s.Call(ctx, "message.sendReply", map[string]any{
		"phone":     phone,
		"message":   message,
		"messageId": messageID,
		"options":   withOptions(opts),
	})
}
