package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"i3pamicstatus/i3bar"
)

type fixedStatus struct {
	on    bool
	err   error
	calls int
}

func (f *fixedStatus) Current() (bool, error) {
	f.calls++
	return f.on, f.err
}

// writeRecorder keeps every Write call so tests can check per-line flushing.
type writeRecorder struct {
	writes []string
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func (w *writeRecorder) String() string {
	return strings.Join(w.writes, "")
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func runRelay(t *testing.T, input string, status StatusSource) (ReadKind, *writeRecorder, error) {
	t.Helper()
	out := &writeRecorder{}
	r := New(strings.NewReader(input), out, status, i3bar.DefaultTable())
	kind, err := r.Run(context.Background())
	return kind, out, err
}

func TestRunListeningExample(t *testing.T) {
	tbl := i3bar.DefaultTable()
	kind, out, err := runRelay(t, lines(`{"version":1}`, `[`, `[{"full_text":"foo"}]`), &fixedStatus{on: true})
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindEndOfStream {
		t.Errorf("kind = %v, want %v", kind, KindEndOfStream)
	}

	want := lines(`{"version":1}`, `[`, `[{"full_text":"foo"},`+string(tbl.Encoded(true))+`]`)
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestRunMutedExample(t *testing.T) {
	tbl := i3bar.DefaultTable()
	_, out, err := runRelay(t, lines(`{"version":1}`, `[`, `[{"full_text":"foo"}]`, `,[{"full_text":"bar"}]`), &fixedStatus{on: false})
	if err != nil {
		t.Fatal(err)
	}

	want := lines(
		`{"version":1}`,
		`[`,
		`[{"full_text":"foo"},`+string(tbl.Encoded(false))+`]`,
		`,[{"full_text":"bar"},`+string(tbl.Encoded(false))+`]`,
	)
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestRunFlushesEveryLine(t *testing.T) {
	input := lines(`{"version":1,"click_events":true}`, `[`, `[]`, `,[]`, `,[]`)
	_, out, err := runRelay(t, input, &fixedStatus{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.writes) != 5 {
		t.Fatalf("got %d writes, want 5: %q", len(out.writes), out.writes)
	}
	for i, w := range out.writes {
		if strings.Count(w, "\n") != 1 || !strings.HasSuffix(w, "\n") {
			t.Errorf("write %d = %q, want exactly one line", i, w)
		}
	}
}

func TestRunHeaderPassthrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"arbitrary header", lines("hello there", "world"), lines("hello there", "world")},
		{"trailing whitespace", "{\"version\":1}  \r\n[\t\n", lines(`{"version":1}`, "[")},
		{"eof after first", "{\"version\":1}\n", lines(`{"version":1}`)},
		{"eof without newline", "{\"version\":1}", lines(`{"version":1}`)},
		{"empty first", "\n[\n", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := &fixedStatus{}
			kind, out, err := runRelay(t, tt.input, status)
			if err != nil {
				t.Fatal(err)
			}
			if kind != KindEndOfStream {
				t.Errorf("kind = %v, want %v", kind, KindEndOfStream)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
			if status.calls != 0 {
				t.Errorf("status queried %d times during header", status.calls)
			}
		})
	}
}

func TestRunEmptyLineTerminates(t *testing.T) {
	status := &fixedStatus{on: true}
	kind, out, err := runRelay(t, lines(`{"version":1}`, `[`, `[]`, ``, `,[]`), status)
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindEndOfStream {
		t.Errorf("kind = %v, want %v", kind, KindEndOfStream)
	}
	if got := strings.Count(out.String(), "\n"); got != 3 {
		t.Errorf("got %d output lines, want 3:\n%s", got, out)
	}
	if status.calls != 1 {
		t.Errorf("status queried %d times, want 1", status.calls)
	}
}

func TestRunLastLineWithoutNewline(t *testing.T) {
	kind, out, err := runRelay(t, "{\"version\":1}\n[\n[{\"full_text\":\"x\"}]", &fixedStatus{})
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindEndOfStream {
		t.Errorf("kind = %v, want %v", kind, KindEndOfStream)
	}
	if got := strings.Count(out.String(), "\n"); got != 3 {
		t.Errorf("got %d output lines, want 3:\n%s", got, out)
	}
}

func TestRunMalformedLineIsFatal(t *testing.T) {
	_, out, err := runRelay(t, lines(`{"version":1}`, `[`, `[]`, `,`, `,[]`), &fixedStatus{})
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("err = %v, want ErrMalformedLine", err)
	}
	if got := strings.Count(out.String(), "\n"); got != 3 {
		t.Errorf("got %d output lines, want 3:\n%s", got, out)
	}
}

func TestProcessQueriesAfterDecode(t *testing.T) {
	tbl := i3bar.DefaultTable()
	status := &fixedStatus{on: true}
	r := New(strings.NewReader(""), io.Discard, status, tbl)

	if _, err := r.Process(`,[{"full_text":"a"}`); !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("err = %v, want ErrMalformedLine", err)
	}
	if status.calls != 0 {
		t.Errorf("status queried %d times for a malformed line", status.calls)
	}

	got, err := r.Process(`,[1,{"full_text":"a"}]`)
	if err != nil {
		t.Fatal(err)
	}
	want := `,[1,{"full_text":"a"},` + string(tbl.Encoded(true)) + `]`
	if got != want {
		t.Errorf("Process = %s, want %s", got, want)
	}
	if status.calls != 1 {
		t.Errorf("status queried %d times, want 1", status.calls)
	}
}

func TestRunStatusErrorIsFatal(t *testing.T) {
	boom := errors.New("connection refused")
	_, out, err := runRelay(t, lines(`{"version":1}`, `[`, `[]`), &fixedStatus{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if got := strings.Count(out.String(), "\n"); got != 2 {
		t.Errorf("got %d output lines, want 2:\n%s", got, out)
	}
}

func TestRunCountsLines(t *testing.T) {
	r := New(strings.NewReader(lines(`{"version":1}`, `[`, `[]`, `,[]`)), io.Discard, &fixedStatus{}, i3bar.DefaultTable())
	var headers []string
	r.OnHeader(func(_ int, line string) { headers = append(headers, line) })
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if r.Lines() != 2 {
		t.Errorf("Lines() = %d, want 2", r.Lines())
	}
	if len(headers) != 2 || headers[0] != `{"version":1}` || headers[1] != "[" {
		t.Errorf("headers = %q", headers)
	}
}

func TestRunInterrupted(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	r := New(pr, &out, &fixedStatus{}, i3bar.DefaultTable())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var kind ReadKind
	var err error
	go func() {
		defer close(done)
		kind, err = r.Run(ctx)
	}()

	if _, werr := io.WriteString(pw, "{\"version\":1}\n[\n"); werr != nil {
		t.Fatal(werr)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindInterrupted {
		t.Errorf("kind = %v, want %v", kind, KindInterrupted)
	}
	if out.String() != lines(`{"version":1}`, "[") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLineReaderResumesPendingRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := NewLineReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res, err := lr.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != KindInterrupted {
		t.Fatalf("kind = %v, want %v", res.Kind, KindInterrupted)
	}

	go io.WriteString(pw, "  first  \n")
	res, err = lr.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != KindLine || res.Text != "first" {
		t.Errorf("Next = %+v, want line %q", res, "first")
	}
}

func TestLineReaderReadError(t *testing.T) {
	pr, pw := io.Pipe()
	boom := errors.New("broken pipe")
	pw.CloseWithError(boom)

	_, err := NewLineReader(pr).Next(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
