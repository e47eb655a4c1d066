package api

import (
	"errors"
	"testing"
)

func TestParseToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "access field", body: `{"access":"T","refresh":"R"}`, want: "T"},
		{name: "bare json string", body: `"T2"`, want: "T2"},
		{name: "plain text", body: "T3\n", want: "T3"},
		{name: "bearer prefix stripped", body: `"Bearer abc"`, want: "abc"},
		{name: "empty object", body: `{}`, wantErr: ErrNoToken},
		{name: "empty access", body: `{"access":""}`, wantErr: ErrNoToken},
		{name: "non-string access", body: `{"access":42}`, wantErr: ErrNoToken},
		{name: "number", body: `123`, wantErr: ErrNoToken},
		{name: "null", body: `null`, wantErr: ErrNoToken},
		{name: "empty body", body: "", wantErr: ErrNoToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToken([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseToken(%q) err = %v, want %v", tt.body, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseToken(%q): %v", tt.body, err)
			}
			if got != tt.want {
				t.Errorf("ParseToken(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestParseItems_Array(t *testing.T) {
	t.Parallel()

	items, err := ParseItems("/api/webtoons/", []byte(`[
		{"id":2,"title":"B","description":"second"},
		{"id":1,"title":"A","description":"first"}
	]`))
	if err != nil {
		t.Fatalf("ParseItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	// server order is kept
	if items[0].ID != 2 || items[0].Title != "B" || items[1].Description != "first" {
		t.Errorf("items = %+v", items)
	}
}

func TestParseItems_Results(t *testing.T) {
	t.Parallel()

	items, err := ParseItems("/api/webtoons/", []byte(`{"count":1,"next":null,"results":[{"id":1,"title":"A","description":"d"}]}`))
	if err != nil {
		t.Fatalf("ParseItems: %v", err)
	}
	if len(items) != 1 || items[0].Title != "A" {
		t.Fatalf("items = %+v, want one entry titled A", items)
	}
}

func TestParseItems_EmptyArrayIsNotNil(t *testing.T) {
	t.Parallel()

	items, err := ParseItems("/api/webtoons/", []byte(`[]`))
	if err != nil {
		t.Fatalf("ParseItems: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v, want empty non-nil slice", items)
	}
}

func TestParseItems_UnexpectedShapes(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"foo":1}`,
		`{"results":null}`,
		`{"results":{"id":1}}`,
		`"text"`,
		`42`,
		`[1,2,3]`,
		``,
	} {
		_, err := ParseItems("/api/webtoons/", []byte(body))
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Errorf("ParseItems(%q) err = %v, want *ShapeError", body, err)
			continue
		}
		if shapeErr.Resource != "/api/webtoons/" {
			t.Errorf("resource = %q", shapeErr.Resource)
		}
	}
}

func TestRequestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *RequestError
		want string
	}{
		{
			name: "json body compacted",
			err:  &RequestError{Status: 401, Body: []byte("{\n  \"detail\": \"No active account\"\n}")},
			want: `Request failed: 401 - {"detail":"No active account"}`,
		},
		{
			name: "text body quoted",
			err:  &RequestError{Status: 502, Body: []byte("<html>bad gateway</html>")},
			want: `Request failed: 502 - "<html>bad gateway</html>"`,
		},
		{
			name: "no body",
			err:  &RequestError{Status: 500},
			want: "Request failed with status code 500",
		},
		{
			name: "null body",
			err:  &RequestError{Status: 500, Body: []byte("null\n")},
			want: "Request failed with status code 500",
		},
		{
			name: "empty json string body",
			err:  &RequestError{Status: 500, Body: []byte(`""`)},
			want: "Request failed with status code 500",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
