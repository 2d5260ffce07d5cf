package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type ReadKind int

const (
	KindLine ReadKind = iota
	KindEndOfStream
	KindInterrupted
)

func (k ReadKind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindEndOfStream:
		return "end_of_stream"
	case KindInterrupted:
		return "interrupted"
	}
	return fmt.Sprintf("ReadKind(%d)", int(k))
}

// ReadResult is the outcome of one blocking line read. Text is set only for
// KindLine and never empty.
type ReadResult struct {
	Kind ReadKind
	Text string
}

type readReply struct {
	line string
	err  error
}

// LineReader reads whitespace-stripped lines and reports end of stream and
// cancellation as results rather than errors.
type LineReader struct {
	r       *bufio.Reader
	pending chan readReply
	eof     bool
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next blocks until a line is available or ctx is done. An empty line, as
// sent by i3status on shutdown, is reported as end of stream.
func (lr *LineReader) Next(ctx context.Context) (ReadResult, error) {
	if ctx.Err() != nil {
		return ReadResult{Kind: KindInterrupted}, nil
	}
	if lr.eof {
		return ReadResult{Kind: KindEndOfStream}, nil
	}

	// A read abandoned by cancellation stays pending and is picked up by the
	// next call, so no input is lost or reordered.
	if lr.pending == nil {
		ch := make(chan readReply, 1)
		lr.pending = ch
		go func() {
			line, err := lr.r.ReadString('\n')
			ch <- readReply{line: line, err: err}
		}()
	}

	var rep readReply
	select {
	case <-ctx.Done():
		return ReadResult{Kind: KindInterrupted}, nil
	case rep = <-lr.pending:
		lr.pending = nil
	}

	if rep.err != nil {
		if !errors.Is(rep.err, io.EOF) {
			return ReadResult{}, fmt.Errorf("reading input: %w", rep.err)
		}
		lr.eof = true
	}

	text := strings.TrimSpace(rep.line)
	if text == "" {
		lr.eof = true
		return ReadResult{Kind: KindEndOfStream}, nil
	}
	return ReadResult{Kind: KindLine, Text: text}, nil
}
