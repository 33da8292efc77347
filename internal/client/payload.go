package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// knownOrder is the display order of analysis fields. Keys not listed here
// follow in alphabetical order.
var knownOrder = []string{
	"errorMessage",
	"swot",
	"strengths",
	"weaknesses",
	"opportunities",
	"threats",
	"marketFit",
	"competitorOverview",
	"refinementSuggestions",
}

// Field is one key of a JSON object. Value holds a string, []any, Payload
// (nested object), float64, bool or nil.
type Field struct {
	Key   string
	Value any
}

// Payload is a JSON object with its keys in display order.
type Payload []Field

// Get returns the value stored under key.
func (p Payload) Get(key string) (any, bool) {
	for _, f := range p {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// ParsePayload decodes a JSON object, keeping nested objects ordered too.
func ParsePayload(data []byte) (Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return orderObject(raw)
}

func orderObject(raw map[string]json.RawMessage) (Payload, error) {
	keys := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, k := range knownOrder {
		if _, ok := raw[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range raw {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	out := make(Payload, 0, len(keys))
	for _, k := range keys {
		v, err := decodeValue(raw[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		out = append(out, Field{Key: k, Value: v})
	}
	return out, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, err
		}
		return orderObject(obj)
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		list := make([]any, 0, len(items))
		for _, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Plain converts the payload back into maps and slices for JSON encoding.
func (p Payload) Plain() map[string]any {
	out := make(map[string]any, len(p))
	for _, f := range p {
		out[f.Key] = plain(f.Value)
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case Payload:
		return t.Plain()
	case []any:
		list := make([]any, len(t))
		for i, item := range t {
			list[i] = plain(item)
		}
		return list
	default:
		return v
	}
}
