package wapi

import (
	"context"
	"encoding/json"
)

// Participant actions accepted by UpdateParticipants.
const (
	ParticipantsAdd     = "add"
	ParticipantsRemove  = "remove"
	ParticipantsPromote = "promote"
	ParticipantsDemote  = "demote"
)

func (s *Service) CreateGroup(ctx context.Context, name string, participants []string) (json.RawMessage, error) {
	return s.Call(ctx, "group.create", map[string]any{
		"name":         name,
		"participants": participants,
	})
}

func (s *Service) GetGroup(ctx context.Context, groupID string) (json.RawMessage, error) {
	return s.Call(ctx, "group.get", map[string]any{"groupId": groupID})
}

func (s *Service) UpdateParticipants(ctx context.Context, groupID, action string, participants []string) (json.RawMessage, error) {
	return s.Call(ctx, "group.updateParticipants", map[string]any{
		"groupId":      groupID,
		"action":       action,
		"participants": participants,
	})
}

func (s *Service) UpdateGroupSettings(ctx context.Context, groupID string, settings map[string]any) (json.RawMessage, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	return s.Call(ctx, "group.updateSettings", map[string]any{
		"groupId":  groupID,
		"settings": settings,
	})
}

func (s *Service) LeaveGroup(ctx context.Context, groupID string) (json.RawMessage, error) {
	return s.Call(ctx, "group.leave", map[string]any{"groupId": groupID})
}

func (s *Service) GetInviteCode(ctx context.Context, groupID string) (json.RawMessage, error) {
	return s.Call(ctx, "group.getInviteCode", map[string]any{"groupId": groupID})
}
