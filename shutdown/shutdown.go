// Package shutdown turns termination signals into context cancellation.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals are the signals treated as a request to stop.
var Signals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// Notify registers ch for the stop signals.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, Signals...)
}

// Context returns a context cancelled on the first stop signal.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}
