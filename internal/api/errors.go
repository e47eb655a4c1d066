package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken is returned when the login call succeeded but its body carries
// neither an "access" field nor a bare token string. The text is shown to
// the user verbatim.
var ErrNoToken = errors.New("No token found in login response. Check login endpoint response format.")

// RequestError is a non-2xx answer from the API. An empty, null or ""
// body counts as no body.
type RequestError struct {
	Status int
	Body   []byte
}

func (e *RequestError) Error() string {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 || string(body) == "null" || string(body) == `""` {
		return fmt.Sprintf("Request failed with status code %d", e.Status)
	}
	return fmt.Sprintf("Request failed: %d - %s", e.Status, serializeBody(body))
}

// ShapeError reports a 2xx collection body that is neither an array nor an
// object with a "results" array.
type ShapeError struct {
	Resource string
	Body     []byte
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("Unexpected %s response format (see log).", e.Resource)
}

// serializeBody renders an error body on one line: JSON bodies compacted,
// anything else as a quoted JSON string.
func serializeBody(b []byte) string {
	if json.Valid(b) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err == nil {
			return buf.String()
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(string(b)); err != nil {
		return string(b)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
