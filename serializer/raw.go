package serializer

import "golang.org/x/text/encoding"

// Raw passes text through unchanged. It is useful for payloads that are
// already serialized, or for inspecting a response body as-is.
type Raw struct {
	enc encoding.Encoding
}

var _ Serializer[string] = (*Raw)(nil)

// NewRaw creates a pass-through serializer. A nil encoding means UTF-8.
func NewRaw(enc encoding.Encoding) *Raw {
	if enc == nil {
		enc = UTF8
	}
	return &Raw{enc: enc}
}

// Serialize returns v unchanged.
func (r *Raw) Serialize(v string) (string, error) { return v, nil }

// Deserialize returns text unchanged.
func (r *Raw) Deserialize(text string) (string, error) { return text, nil }

// Encoding returns the configured text encoding.
func (r *Raw) Encoding() encoding.Encoding { return r.enc }

// MediaType returns text/plain.
func (r *Raw) MediaType() string { return "text/plain" }
