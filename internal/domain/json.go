package domain

import (
	"bytes"
	"encoding/json"
)

// EncodeJSON serializes v the way request bodies go on the wire: HTML
// characters are not escaped and there is no trailing newline. Chunk sizes
// are measured with the same encoding.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
