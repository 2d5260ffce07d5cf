package i3bar

import "encoding/json"

const (
	GlyphMic      = "\uf130" // microphone
	GlyphMicMuted = "\uf131" // microphone-slash

	ColorListening = "#2dc66d"
	ColorMuted     = "#666666"
)

// Table maps the microphone state to the block appended to each line.
type Table struct {
	onJSON, offJSON json.RawMessage
}

// NewTable builds a table from the two glyph/colour pairs. Both variants are
// encoded once so every line carries byte-identical blocks.
func NewTable(onText, onColor, offText, offColor string) (*Table, error) {
	t := &Table{}
	var err error
	if t.onJSON, err = encodeBlock(derived(onText, onColor)); err != nil {
		return nil, err
	}
	if t.offJSON, err = encodeBlock(derived(offText, offColor)); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultTable returns the stock microphone glyphs in green and gray.
func DefaultTable() *Table {
	t, err := NewTable(GlyphMic, ColorListening, GlyphMicMuted, ColorMuted)
	if err != nil {
		panic(err)
	}
	return t
}

// Encoded returns the pre-encoded JSON object for the given state.
func (t *Table) Encoded(on bool) json.RawMessage {
	if on {
		return t.onJSON
	}
	return t.offJSON
}

func derived(text, color string) Block {
	return Block{
		FullText: text,
		Color:    color,
		Name:     Name,
		Align:    "center",
	}
}
