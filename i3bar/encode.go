package i3bar

import (
	"bytes"
	"encoding/json"
)

// encodeBlock marshals without HTML escaping; pango markup in full_text must
// reach i3bar verbatim.
func encodeBlock(b Block) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// EncodeLine encodes blocks as a compact JSON array with no trailing newline.
func EncodeLine(blocks []json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blocks); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
