package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/taskexchange/taskx/internal/core/ports"
)

// decodeList accepts both a bare array and an object wrapping the array
// under key, e.g. {"tasks": [...]}.
func decodeList[T any](resp *ports.Response, key string) ([]T, error) {
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return []T{}, nil
	}

	var items []T
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	raw, ok := wrapped[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

// decodeOne accepts both a bare object and an object wrapping it under key,
// e.g. {"task": {...}}. A blank or null body decodes to the zero value.
func decodeOne[T any](resp *ports.Response, key string) (*T, error) {
	var out T
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return &out, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	raw := json.RawMessage(body)
	if inner, ok := wrapped[key]; ok && isObject(inner) {
		raw = inner
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &out, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
