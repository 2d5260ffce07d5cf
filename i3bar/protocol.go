// Package i3bar holds the i3bar protocol types this filter reads and emits.
//
// See https://i3wm.org/docs/i3bar-protocol.html
package i3bar

import (
	"encoding/json"
	"fmt"
)

// Name identifies blocks appended by this program.
const Name = "i3pamicstatus"

type Header struct {
	Version     int  `json:"version"`
	StopSignal  int  `json:"stop_signal,omitempty"`
	ContSignal  int  `json:"cont_signal,omitempty"`
	ClickEvents bool `json:"click_events,omitempty"`
}

// ParseHeader decodes the version header line. The header is only inspected,
// callers forward the original line untouched.
func ParseHeader(line string) (Header, error) {
	var h Header
	if err := json.Unmarshal([]byte(line), &h); err != nil {
		return Header{}, fmt.Errorf("parsing header: %w", err)
	}
	return h, nil
}

// Block is one status bar segment. Field order matters: it is the key order
// of the encoded object.
type Block struct {
	FullText            string `json:"full_text"`
	ShortText           string `json:"short_text,omitempty"`
	Color               string `json:"color,omitempty"`
	Background          string `json:"background,omitempty"`
	Border              string `json:"border,omitempty"`
	Name                string `json:"name,omitempty"`
	Instance            string `json:"instance,omitempty"`
	Align               string `json:"align,omitempty"`
	MinWidth            int    `json:"min_width,omitempty"`
	Urgent              bool   `json:"urgent,omitempty"`
	Separator           *bool  `json:"separator,omitempty"`
	SeparatorBlockWidth int    `json:"separator_block_width,omitempty"`
	Markup              string `json:"markup,omitempty"`
}
