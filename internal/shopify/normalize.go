package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// unwrapList normalizes the two response shapes the API produces for list
// endpoints: sometimes a bare array, sometimes an object wrapping the array
// under a named key. Callers never see the difference.
func unwrapList[T any](body []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal list response: %w", err)
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}

	raw, ok := envelope[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return items, nil
}

// unwrapObject extracts a single wrapped object, e.g. {"product": {...}}
func unwrapObject[T any](body []byte, key string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}

	raw, ok := envelope[key]
	if !ok {
		return nil, fmt.Errorf("response missing %q", key)
	}

	var obj T
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return &obj, nil
}
