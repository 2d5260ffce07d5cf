// Package log writes diagnostics to a file in the log directory. Nothing is
// ever written to stdout, which carries the status stream.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	diagFileName = "diagnostics_log.txt"
	envLogPath   = "I3PAMICSTATUS_LOG_PATH"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

// ResolveDir picks the log directory: flag, then environment, then the
// config file value, then the OS default.
func ResolveDir(flagPath, configPath string) (string, error) {
	for _, p := range []string{flagPath, os.Getenv(envLogPath), configPath} {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, p), nil
		}
		return p, nil
	}
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagFile, err = os.OpenFile(filepath.Join(dir, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(err error) {
	if logReady {
		diagLog.Error().Err(err).Msg("fatal")
	}
}

func RelayStart(mode, light, client, configPath string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mode", mode).
		Str("indicator", light).
		Str("client", client).
		Str("config", configPath).
		Msg("relay_start")
}

func Header(version int, clickEvents bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("version", version).
		Bool("click_events", clickEvents).
		Msg("header")
}

func RelayEnd(reason string, lines int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("reason", reason).
		Int("lines", lines).
		Msg("relay_end")
}
