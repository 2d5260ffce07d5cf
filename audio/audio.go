package audio

import "strings"

// ClientName is the application name announced to the sound server.
const ClientName = "i3pamicstatus"

// SourceState mirrors the sound server's source states.
type SourceState uint32

const (
	StateRunning SourceState = iota
	StateIdle
	StateSuspended
)

func (s SourceState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateIdle:
		return "idle"
	case StateSuspended:
		return "suspended"
	}
	return "invalid"
}

type SourceInfo struct {
	Index       uint32
	Name        string // server-side identifier, e.g. alsa_input.pci-0000_00_1f.3.analog-stereo
	Description string
	State       SourceState
	Muted       bool
}

// Monitor reports whether the source taps an output rather than a microphone.
func (s SourceInfo) Monitor() bool {
	return strings.HasSuffix(s.Name, ".monitor")
}

// Server is a long-lived connection to the sound server. Every call goes to
// the server; nothing is cached.
type Server interface {
	Sources() ([]SourceInfo, error)
	// DefaultSourceName returns "" when no default source is configured.
	DefaultSourceName() (string, error)
	Close()
}

// FindSource returns the source named name, if present.
func FindSource(sources []SourceInfo, name string) (SourceInfo, bool) {
	if name == "" {
		return SourceInfo{}, false
	}
	for _, s := range sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceInfo{}, false
}
