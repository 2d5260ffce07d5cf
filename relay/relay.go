// Package relay copies an i3bar protocol stream from input to output,
// appending the microphone block to every status line.
package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"i3pamicstatus/i3bar"
)

// StatusSource reports the current microphone state.
type StatusSource interface {
	Current() (bool, error)
}

// HeaderFunc observes the header lines as they pass through.
type HeaderFunc func(index int, line string)

type Relay struct {
	in     *LineReader
	out    *bufio.Writer
	status StatusSource
	table  *i3bar.Table

	onHeader HeaderFunc
	lines    int
}

// HeaderLines is the number of lines copied before the status lines start:
// the version header and the opening bracket of the infinite array.
const HeaderLines = 2

func New(in io.Reader, out io.Writer, status StatusSource, table *i3bar.Table) *Relay {
	return &Relay{
		in:     NewLineReader(in),
		out:    bufio.NewWriter(out),
		status: status,
		table:  table,
	}
}

func (r *Relay) OnHeader(fn HeaderFunc) {
	r.onHeader = fn
}

// Lines returns the number of status lines relayed so far.
func (r *Relay) Lines() int {
	return r.lines
}

// Run relays until the input ends or ctx is cancelled, returning which of
// the two happened. Any returned error is fatal.
func (r *Relay) Run(ctx context.Context) (ReadKind, error) {
	for i := 0; i < HeaderLines; i++ {
		res, err := r.in.Next(ctx)
		if err != nil || res.Kind != KindLine {
			return res.Kind, err
		}
		if r.onHeader != nil {
			r.onHeader(i, res.Text)
		}
		if err := r.writeLine(res.Text); err != nil {
			return KindLine, err
		}
	}

	for {
		res, err := r.in.Next(ctx)
		if err != nil || res.Kind != KindLine {
			return res.Kind, err
		}
		line, err := r.Process(res.Text)
		if err != nil {
			return KindLine, err
		}
		if err := r.writeLine(line); err != nil {
			return KindLine, err
		}
		r.lines++
	}
}

// Process transforms one non-empty status line.
func (r *Relay) Process(raw string) (string, error) {
	return Transform(raw, r.derived)
}

func (r *Relay) derived() (json.RawMessage, error) {
	on, err := r.status.Current()
	if err != nil {
		return nil, fmt.Errorf("querying status: %w", err)
	}
	return r.table.Encoded(on), nil
}

func (r *Relay) writeLine(line string) error {
	if _, err := r.out.WriteString(line); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := r.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := r.out.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
