package serializer

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"
)

// YAMLOption configures a YAML serializer.
type YAMLOption func(*yamlSettings)

type yamlSettings struct {
	indent int
	strict bool
}

// YAML serializes values with gopkg.in/yaml.v3. Output is always UTF-8 and
// uses 4-space indentation unless configured otherwise.
type YAML[T any] struct {
	indent int
	strict bool
}

var _ Serializer[struct{}] = (*YAML[struct{}])(nil)

// WithYAMLIndent sets the number of spaces per nesting level. Values below 1
// are ignored.
func WithYAMLIndent(spaces int) YAMLOption {
	return func(s *yamlSettings) {
		if spaces > 0 {
			s.indent = spaces
		}
	}
}

// WithKnownFields makes Deserialize fail on mapping keys that do not match a
// destination field.
func WithKnownFields() YAMLOption {
	return func(s *yamlSettings) { s.strict = true }
}

// NewYAML creates a YAML serializer for T.
func NewYAML[T any](opts ...YAMLOption) *YAML[T] {
	cfg := yamlSettings{indent: 4}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &YAML[T]{indent: cfg.indent, strict: cfg.strict}
}

// Serialize encodes v as a YAML document.
func (y *YAML[T]) Serialize(v T) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(y.indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("serializer: yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("serializer: yaml encode: %w", err)
	}
	return buf.String(), nil
}

// Deserialize decodes a YAML document into a T.
func (y *YAML[T]) Deserialize(text string) (T, error) {
	var v T
	dec := yaml.NewDecoder(bytes.NewBufferString(text))
	dec.KnownFields(y.strict)
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("serializer: yaml decode: %w", err)
	}
	return v, nil
}

// Encoding returns UTF-8.
func (y *YAML[T]) Encoding() encoding.Encoding {
	return UTF8
}

// MediaType returns application/yaml.
func (y *YAML[T]) MediaType() string { return "application/yaml" }
