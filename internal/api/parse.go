package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Makepad-fr/boken/internal/model"
)

// ParseToken extracts the session token from a login body. Accepted shapes:
// an object with a non-empty "access" string, a JSON string, or a non-JSON
// text body. Anything else yields ErrNoToken.
func ParseToken(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ErrNoToken
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		// plain text body: the whole thing is the token
		return stripBearer(string(trimmed)), nil
	}

	switch t := v.(type) {
	case string:
		if tok := stripBearer(strings.TrimSpace(t)); tok != "" {
			return tok, nil
		}
	case map[string]any:
		if tok, ok := t["access"].(string); ok && tok != "" {
			return tok, nil
		}
	}
	return "", ErrNoToken
}

// ParseItems validates a collection body. resource names the endpoint in
// the *ShapeError returned for unexpected shapes.
func ParseItems(resource string, body []byte) ([]model.Item, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &ShapeError{Resource: resource, Body: trimmed}
	}

	switch trimmed[0] {
	case '[':
		if items, ok := decodeItems(trimmed); ok {
			return items, nil
		}
	case '{':
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err == nil {
			if items, ok := decodeItems(bytes.TrimSpace(page.Results)); ok {
				return items, nil
			}
		}
	}
	return nil, &ShapeError{Resource: resource, Body: trimmed}
}

func decodeItems(raw []byte) ([]model.Item, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	items := []model.Item{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
