package rest

import (
	"net/http"
	"net/url"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/httpclient"
	"github.com/kbukum/reststack/serializer"
)

func TestClient_Resolve(t *testing.T) {
	tests := []struct {
		endpoint string
		target   string
		want     string
		wantErr  bool
	}{
		{"https://api.example.com", "/widgets/7", "https://api.example.com/widgets/7", false},
		{"https://api.example.com/v1/", "widgets/7", "https://api.example.com/v1/widgets/7", false},
		{"https://api.example.com/v1", "widgets/7", "https://api.example.com/widgets/7", false},
		{"https://api.example.com/v1/", "/widgets", "https://api.example.com/widgets", false},
		{"https://api.example.com/v1/", "../up", "https://api.example.com/up", false},
		{"https://api.example.com/v1/", "?page=2", "https://api.example.com/v1/?page=2", false},
		{"https://api.example.com", "", "https://api.example.com", false},
		{"https://api.example.com", "http://other.example.com/x", "http://other.example.com/x", false},
		{"https://api.example.com", "//other.example.com/x", "", true},
		{"https://api.example.com", "ftp://files.example.com/x", "", true},
		{"https://api.example.com", "http:///nohost", "", true},
		{"https://api.example.com", "/bad%zz", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.endpoint+"+"+tc.target, func(t *testing.T) {
			ep, _ := url.Parse(tc.endpoint)
			c := &Client{endpoint: ep}
			got, err := c.resolve(tc.target)
			if tc.wantErr {
				if errors.CodeOf(err) != errors.ErrCodeInvalidTarget {
					t.Errorf("expected INVALID_TARGET, got %v (%v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("resolve(%q) = %q, want %q", tc.target, got, tc.want)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	json := serializer.NewJSON[map[string]any]()
	latin := serializer.NewXML[struct{}](charmap.ISO8859_1)
	raw := serializer.NewRaw(nil)

	tests := []struct {
		name string
		got  func() (string, error)
		want string
	}{
		{"json default", func() (string, error) { return contentType("", json) }, "application/json; charset=UTF-8"},
		{"explicit", func() (string, error) { return contentType("application/vnd.api+json", json) }, "application/vnd.api+json; charset=UTF-8"},
		{"replaces charset", func() (string, error) { return contentType("text/xml; charset=utf-8", latin) }, "text/xml; charset=ISO-8859-1"},
		{"keeps params", func() (string, error) { return contentType("text/plain; format=flowed", raw) }, "text/plain; charset=UTF-8; format=flowed"},
		{"raw default", func() (string, error) { return contentType("", raw) }, "text/plain; charset=UTF-8"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.got()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("contentType() = %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := contentType("not a media type;;", json); err == nil {
		t.Error("expected error for invalid media type")
	}
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		fallback    encoding.Encoding
		want        string
	}{
		{"declared latin-1", "text/plain; charset=iso-8859-1", []byte("caf\xe9"), serializer.UTF8, "café"},
		{"declared latin1 alias", "application/xml; charset=latin1", []byte("cr\xe8me"), serializer.UTF8, "crème"},
		{"declared utf-16le", "text/plain; charset=utf-16le", []byte{'c', 0, 'a', 0, 'f', 0, 0xe9, 0}, serializer.UTF8, "café"},
		{"declared utf-8 overrides fallback", "text/plain; charset=UTF-8", []byte("café"), charmap.ISO8859_1, "café"},
		{"no charset uses fallback", "application/xml", []byte("caf\xe9"), charmap.ISO8859_1, "café"},
		{"unknown charset uses fallback", "text/plain; charset=x-unknown", []byte("caf\xe9"), charmap.ISO8859_1, "café"},
		{"no content type", "", []byte("plain"), serializer.UTF8, "plain"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := &httpclient.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: tc.body}
			if tc.contentType != "" {
				resp.Header.Set("Content-Type", tc.contentType)
			}
			got, err := decodeBody(resp, tc.fallback)
			if err != nil {
				t.Fatalf("decodeBody() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("decodeBody() = %q, want %q", got, tc.want)
			}
		})
	}
}
