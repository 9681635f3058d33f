package wapi

import (
	"context"
	"encoding/json"
	"fmt"
)

// Options carries vendor-specific message options. It is sent as {} when nil.
type Options map[string]any

// Call runs the operation registered under name (or an alias of it).
// A "phone" param is normalized with FormatPhone, and message sends
// always carry an options object.
func (s *Service) Call(ctx context.Context, name string, params map[string]any) (json.RawMessage, error) {
	op, ok := LookupOperation(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return s.Execute(ctx, Request{
		Method:   op.Method,
		Endpoint: op.Endpoint,
		Params:   normalizeParams(op, params),
	})
}

func normalizeParams(op Operation, params map[string]any) map[string]any {
	if params == nil && op.Group != "message" {
		return nil
	}
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	if phone, ok := out["phone"].(string); ok && phone != "" {
		out["phone"] = FormatPhone(phone)
	}
	switch participants := out["participants"].(type) {
	case []string:
		out["participants"] = formatPhones(participants)
	case []any:
		formatted := make([]any, len(participants))
		for i, p := range participants {
			if phone, ok := p.(string); ok {
				formatted[i] = FormatPhone(phone)
				continue
			}
			formatted[i] = p
		}
		out["participants"] = formatted
	}
	if op.Group == "message" {
		if opts, ok := out["options"]; !ok || opts == nil {
			out["options"] = Options{}
		}
	}
	return out
}

func withOptions(opts Options) Options {
	if opts == nil {
		return Options{}
	}
	return opts
}
