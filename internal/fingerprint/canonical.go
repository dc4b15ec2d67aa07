package fingerprint

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// encodeCanonical renders a pre-image value as deterministic JSON.
//
// The encoding is intentionally narrow: fingerprint pre-images only
// ever contain strings, 64-bit integers, and arrays. Keyed objects,
// floats, and nulls are forbidden so that two semantically equal
// inputs can never serialize differently.
//
// Strings are NFC normalized and encoded without HTML escaping, so
// the byte stream depends only on the logical text content.
func encodeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		return encodeCanonicalString(buf, val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return fmt.Errorf("unsupported type in fingerprint pre-image: %T", v)
	}
}

// encodeCanonicalString writes one JSON string with NFC normalization
// applied at the serialization boundary and HTML escaping disabled
// (<, > and & appear literally).
func encodeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}

	// json.Encoder appends a trailing newline.
	out := tmp.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
	return nil
}
