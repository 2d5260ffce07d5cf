// Package indicator drives an optional USB light that mirrors the
// microphone state.
package indicator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoDevice is returned by lookups when no light is attached.
var ErrNoDevice = errors.New("no indicator light attached")

type Color struct {
	R, G, B uint8
}

// ParseColor parses "#rrggbb".
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colors maps the microphone state to a light colour.
type Colors struct {
	On  Color
	Off Color
}

// DefaultColors keeps the light dark while muted and a dim green while
// listening.
var DefaultColors = Colors{
	On:  Color{G: 0x33},
	Off: Color{},
}

func (c Colors) For(on bool) Color {
	if on {
		return c.On
	}
	return c.Off
}

// Light is the indicator capability. Set is best effort: callers discard the
// error, it exists for diagnostics only.
type Light interface {
	Set(on bool) error
	Name() string
}

// Noop stands in when no light driver can work in this environment.
type Noop struct{}

func (Noop) Set(bool) error { return nil }
func (Noop) Name() string   { return "none" }

// Detect picks the driver once for the life of the process. A disabled
// indicator or a system without hidraw support yields Noop.
func Detect(enabled bool, colors Colors) Light {
	if !enabled {
		return Noop{}
	}
	if l := detect(colors); l != nil {
		return l
	}
	return Noop{}
}

// parseHIDID splits a uevent HID_ID value ("0003:000020A0:000041E5") into
// vendor and product ids.
func parseHIDID(v string) (vendor, product uint32, ok bool) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, 0, false
	}
	ven, err := strconv.ParseUint(parts[1], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	prod, err := strconv.ParseUint(parts[2], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint32(ven), uint32(prod), true
}
