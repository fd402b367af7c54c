package serializer

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Serializer converts values of type T to and from text.
type Serializer[T any] interface {
	// Serialize produces the wire representation of v.
	Serialize(v T) (string, error)
	// Deserialize reconstructs a value from its wire representation.
	// Malformed text yields an error, never a panic.
	Deserialize(text string) (T, error)
	// Encoding is the byte encoding used to transmit Serialize output and to
	// interpret received bytes.
	Encoding() encoding.Encoding
}

// MediaTyper is implemented by serializers that have a natural media type.
// It supplies the Content-Type when a caller passes no media type.
type MediaTyper interface {
	MediaType() string
}

// UTF8 is the default text encoding.
var UTF8 encoding.Encoding = unicode.UTF8

// CharsetName returns the preferred MIME name of enc (e.g. "ISO-8859-1") for
// use in a Content-Type charset parameter or an XML declaration. Encodings
// without a MIME name fall back to their IANA name. Nil means UTF-8.
func CharsetName(enc encoding.Encoding) string {
	if isUTF8(enc) {
		return "UTF-8"
	}
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil && name != "" {
		return name
	}
	return "UTF-8"
}

// LookupEncoding resolves an IANA charset name such as "ISO-8859-1" or "utf-16".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("serializer: unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("serializer: unsupported charset %q", name)
	}
	return enc, nil
}

// EncodeText converts s into bytes in the given encoding. Nil means UTF-8.
func EncodeText(enc encoding.Encoding, s string) ([]byte, error) {
	if isUTF8(enc) {
		return []byte(s), nil
	}
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("serializer: encode %s text: %w", CharsetName(enc), err)
	}
	return b, nil
}

// DecodeText converts bytes in the given encoding into a string. Nil means UTF-8.
func DecodeText(enc encoding.Encoding, b []byte) (string, error) {
	if isUTF8(enc) {
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("serializer: decode %s text: %w", CharsetName(enc), err)
	}
	return string(out), nil
}

// isUTF8 reports whether enc leaves UTF-8 bytes unchanged.
func isUTF8(enc encoding.Encoding) bool {
	return enc == nil || enc == unicode.UTF8 || enc == encoding.Nop
}
