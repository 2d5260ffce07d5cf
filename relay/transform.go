package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"i3pamicstatus/i3bar"
)

// ErrMalformedLine marks a status line that is not a JSON array.
var ErrMalformedLine = errors.New("malformed status line")

// SplitLine separates the optional leading comma from the JSON body. The
// body is returned verbatim.
func SplitLine(raw string) (sep, body string) {
	if strings.HasPrefix(raw, ",") {
		return ",", raw[1:]
	}
	return "", raw
}

// DecodeBlocks decodes a status line body. Existing blocks are kept as raw
// JSON and are not inspected, so every field survives the round trip.
func DecodeBlocks(body string) ([]json.RawMessage, error) {
	var blocks []json.RawMessage
	if err := json.Unmarshal([]byte(body), &blocks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	if blocks == nil {
		// "null" decodes into a nil slice without error.
		return nil, fmt.Errorf("%w: expected array, got %q", ErrMalformedLine, body)
	}
	return blocks, nil
}

// Transform appends the block returned by derive to the blocks of raw and
// re-encodes the line, keeping its separator. derive is only called once the
// line has decoded.
func Transform(raw string, derive func() (json.RawMessage, error)) (string, error) {
	sep, body := SplitLine(raw)
	blocks, err := DecodeBlocks(body)
	if err != nil {
		return "", err
	}
	derived, err := derive()
	if err != nil {
		return "", err
	}
	out, err := i3bar.EncodeLine(append(blocks, derived))
	if err != nil {
		return "", fmt.Errorf("encoding status line: %w", err)
	}
	return sep + string(out), nil
}
