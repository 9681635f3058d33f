package wapi

import (
	"net/http"
	"sort"
	"strings"
)

// Operation maps a logical name to one vendor endpoint.
type Operation struct {
	Name     string
	Group    string
	Method   string
	Endpoint string
	Summary  string
}

// Cacheable reports whether responses for op may be memoized.
func (op Operation) Cacheable() bool { return op.Method == http.MethodGet }

var operations = []Operation{
	{"instance.status", "instance", http.MethodGet, "/instance/status", "Connection status of the instance"},
	{"instance.connect", "instance", http.MethodPost, "/instance/connect", "Start a session"},
	{"instance.disconnect", "instance", http.MethodPost, "/instance/disconnect", "Close the session"},
	{"instance.restart", "instance", http.MethodPost, "/instance/restart", "Restart the instance"},
	{"instance.logout", "instance", http.MethodPost, "/instance/logout", "Log the paired device out"},
	{"instance.qrcode", "instance", http.MethodGet, "/instance/qrcode", "Pairing QR code"},

	{"message.sendText", "message", http.MethodPost, "/message/send-text", "Send a text message"},
	{"message.sendImage", "message", http.MethodPost, "/message/send-image", "Send an image"},
	{"message.sendDocument", "message", http.MethodPost, "/message/send-document", "Send a document"},
	{"message.sendAudio", "message", http.MethodPost, "/message/send-audio", "Send an audio file"},
	{"message.sendVideo", "message", http.MethodPost, "/message/send-video", "Send a video"},
	{"message.sendLocation", "message", http.MethodPost, "/message/send-location", "Send a location pin"},
	{"message.sendContact", "message", http.MethodPost, "/message/send-contact", "Send a contact card"},
	{"message.sendButton", "message", http.MethodPost, "/message/send-button", "Send a message with buttons"},
	{"message.sendList", "message", http.MethodPost, "/message/send-list", "Send a list message"},
	{"message.sendReply", "message", http.MethodPost, "/message/send-reply", "Reply to a message"},

	{"contact.get", "contact", http.MethodGet, "/contact/get", "Get one contact"},
	{"contact.getAll", "contact", http.MethodGet, "/contact/get-all", "List contacts"},
	{"contact.check", "contact", http.MethodGet, "/contact/check", "Check a number is on WhatsApp"},
	{"contact.save", "contact", http.MethodPost, "/contact/save", "Save a contact"},
	{"contact.getAbout", "contact", http.MethodGet, "/contact/get-about", "Get a contact's about text"},

	{"chat.get", "chat", http.MethodGet, "/chat/get", "Get one chat"},
	{"chat.getAll", "chat", http.MethodGet, "/chat/get-all", "List chats"},
	{"chat.archive", "chat", http.MethodPost, "/chat/archive", "Archive a chat"},
	{"chat.unarchive", "chat", http.MethodPost, "/chat/unarchive", "Unarchive a chat"},
	{"chat.clear", "chat", http.MethodPost, "/chat/clear", "Clear a chat's messages"},
	{"chat.delete", "chat", http.MethodPost, "/chat/delete", "Delete a chat"},
	{"chat.pin", "chat", http.MethodPost, "/chat/pin", "Pin a chat"},
	{"chat.unpin", "chat", http.MethodPost, "/chat/unpin", "Unpin a chat"},

	{"group.create", "group", http.MethodPost, "/group/create", "Create a group"},
	{"group.get", "group", http.MethodGet, "/group/get", "Get group metadata"},
	{"group.updateParticipants", "group", http.MethodPost, "/group/update-participants", "Add, remove, promote or demote members"},
	{"group.updateSettings", "group", http.MethodPost, "/group/update-settings", "Change group settings"},
	{"group.leave", "group", http.MethodPost, "/group/leave", "Leave a group"},
	{"group.getInviteCode", "group", http.MethodGet, "/group/get-invite-code", "Get the group invite code"},
}

// aliases are short names accepted wherever an operation name is.
var aliases = map[string]string{
	"status":       "instance.status",
	"connect":      "instance.connect",
	"disconnect":   "instance.disconnect",
	"restart":      "instance.restart",
	"logout":       "instance.logout",
	"qr":           "instance.qrcode",
	"qrcode":       "instance.qrcode",
	"send":         "message.sendText",
	"text":         "message.sendText",
	"image":        "message.sendImage",
	"document":     "message.sendDocument",
	"audio":        "message.sendAudio",
	"video":        "message.sendVideo",
	"location":     "message.sendLocation",
	"reply":        "message.sendReply",
	"contact":      "contact.get",
	"contacts":     "contact.getAll",
	"check":        "contact.check",
	"about":        "contact.getAbout",
	"chat":         "chat.get",
	"chats":        "chat.getAll",
	"group":        "group.get",
	"invite":       "group.getInviteCode",
	"participants": "group.updateParticipants",
}

var byName = func() map[string]Operation {
	m := make(map[string]Operation, len(operations))
	for _, op := range operations {
		m[op.Name] = op
	}
	return m
}()

// Operations returns every known operation in table order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// Aliases returns alias -> operation name, sorted by alias.
func Aliases() [][2]string {
	out := make([][2]string, 0, len(aliases))
	for a, name := range aliases {
		out = append(out, [2]string{a, name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// LookupOperation resolves an operation name or alias.
func LookupOperation(name string) (Operation, bool) {
	name = strings.TrimSpace(name)
	if op, ok := byName[name]; ok {
		return op, true
	}
	if target, ok := aliases[strings.ToLower(name)]; ok {
		op, ok := byName[target]
		return op, ok
	}
	return Operation{}, false
}
