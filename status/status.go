// Package status derives the microphone state from the sound server and
// mirrors it on the indicator light.
package status

import (
	"fmt"

	"i3pamicstatus/audio"
	"i3pamicstatus/indicator"
)

type Mode int

const (
	// ModeListening reports whether any source is capturing.
	ModeListening Mode = iota
	// ModeUnmuted reports whether the default source is unmuted.
	ModeUnmuted
)

func (m Mode) String() string {
	switch m {
	case ModeListening:
		return "listening"
	case ModeUnmuted:
		return "unmuted"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Listening is true when at least one source is running.
func Listening(srv audio.Server) (bool, error) {
	sources, err := srv.Sources()
	if err != nil {
		return false, err
	}
	for _, s := range sources {
		if s.State == audio.StateRunning {
			return true, nil
		}
	}
	return false, nil
}

// Unmuted is true when the default source exists and is not muted. A
// missing or unknown default source counts as muted.
func Unmuted(srv audio.Server) (bool, error) {
	name, err := srv.DefaultSourceName()
	if err != nil {
		return false, err
	}
	if name == "" {
		return false, nil
	}
	sources, err := srv.Sources()
	if err != nil {
		return false, err
	}
	s, ok := audio.FindSource(sources, name)
	if !ok {
		return false, nil
	}
	return !s.Muted, nil
}

// Source answers the relay's status queries. Each call hits the server.
type Source struct {
	server audio.Server
	mode   Mode
	light  indicator.Light
}

func New(server audio.Server, mode Mode, light indicator.Light) *Source {
	if light == nil {
		light = indicator.Noop{}
	}
	return &Source{server: server, mode: mode, light: light}
}

func (s *Source) Mode() Mode { return s.mode }

func (s *Source) Current() (bool, error) {
	var on bool
	var err error
	switch s.mode {
	case ModeUnmuted:
		on, err = Unmuted(s.server)
	default:
		on, err = Listening(s.server)
	}
	if err != nil {
		return false, fmt.Errorf("%s query: %w", s.mode, err)
	}

	// The light is cosmetic; its errors are dropped and never logged.
	_ = s.light.Set(on)
	return on, nil
}
