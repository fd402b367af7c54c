package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
)

// JSONOption configures a JSON serializer.
type JSONOption func(*jsonSettings)

type jsonSettings struct {
	prefix                string
	indent                string
	escapeHTML            bool
	disallowUnknownFields bool
	useNumber             bool
}

// WithIndent pretty-prints output using the given prefix and indent.
func WithIndent(prefix, indent string) JSONOption {
	return func(s *jsonSettings) {
		s.prefix = prefix
		s.indent = indent
	}
}

// WithEscapeHTML toggles escaping of <, > and & inside strings. Enabled by default.
func WithEscapeHTML(escape bool) JSONOption {
	return func(s *jsonSettings) { s.escapeHTML = escape }
}

// WithDisallowUnknownFields makes Deserialize fail on object keys that do not
// match a destination field.
func WithDisallowUnknownFields() JSONOption {
	return func(s *jsonSettings) { s.disallowUnknownFields = true }
}

// WithUseNumber decodes numbers held in interface values as json.Number
// instead of float64.
func WithUseNumber() JSONOption {
	return func(s *jsonSettings) { s.useNumber = true }
}

// JSON serializes values with encoding/json. Output is always UTF-8.
//
// With no options it matches json.Marshal: compact output, HTML escaping,
// unknown fields ignored on decode.
type JSON[T any] struct {
	settings jsonSettings
}

var _ Serializer[struct{}] = (*JSON[struct{}])(nil)

// NewJSON creates a JSON serializer for T.
func NewJSON[T any](opts ...JSONOption) *JSON[T] {
	s := jsonSettings{escapeHTML: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &JSON[T]{settings: s}
}

// Serialize encodes v as JSON text.
func (j *JSON[T]) Serialize(v T) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(j.settings.escapeHTML)
	if j.settings.prefix != "" || j.settings.indent != "" {
		enc.SetIndent(j.settings.prefix, j.settings.indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("serializer: json encode: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Deserialize decodes JSON text into a T. Trailing data after the first
// value is rejected.
func (j *JSON[T]) Deserialize(text string) (T, error) {
	var v T
	dec := json.NewDecoder(strings.NewReader(text))
	if j.settings.disallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if j.settings.useNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("serializer: json decode: %w", err)
	}
	if rest := strings.TrimSpace(text[dec.InputOffset():]); rest != "" {
		var zero T
		return zero, fmt.Errorf("serializer: json decode: unexpected data after top-level value")
	}
	return v, nil
}

// Encoding returns UTF-8.
func (j *JSON[T]) Encoding() encoding.Encoding {
	return UTF8
}

// MediaType returns application/json.
func (j *JSON[T]) MediaType() string { return "application/json" }
