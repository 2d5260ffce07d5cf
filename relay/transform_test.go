package relay

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"i3pamicstatus/i3bar"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		raw      string
		wantSep  string
		wantBody string
	}{
		{`[{"full_text":"a"}]`, "", `[{"full_text":"a"}]`},
		{`,[{"full_text":"a"}]`, ",", `[{"full_text":"a"}]`},
		{",", ",", ""},
		{",,[]", ",", ",[]"},
		{" ,[]", "", " ,[]"},
	}

	for _, tt := range tests {
		sep, body := SplitLine(tt.raw)
		if sep != tt.wantSep || body != tt.wantBody {
			t.Errorf("SplitLine(%q) = (%q, %q), want (%q, %q)", tt.raw, sep, body, tt.wantSep, tt.wantBody)
		}
	}
}

func block(b json.RawMessage) func() (json.RawMessage, error) {
	return func() (json.RawMessage, error) { return b, nil }
}

func TestTransformExamples(t *testing.T) {
	tbl := i3bar.DefaultTable()
	on := `{"full_text":"` + i3bar.GlyphMic + `","color":"#2dc66d","name":"i3pamicstatus","align":"center"}`
	off := `{"full_text":"` + i3bar.GlyphMicMuted + `","color":"#666666","name":"i3pamicstatus","align":"center"}`

	tests := []struct {
		raw  string
		on   bool
		want string
	}{
		{`[{"full_text":"foo"}]`, true, `[{"full_text":"foo"},` + on + `]`},
		{`,[{"full_text":"bar"}]`, false, `,[{"full_text":"bar"},` + off + `]`},
		{`[]`, true, `[` + on + `]`},
		{`,[ ]`, false, `,[` + off + `]`},
	}

	for _, tt := range tests {
		got, err := Transform(tt.raw, block(tbl.Encoded(tt.on)))
		if err != nil {
			t.Errorf("Transform(%q) error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Transform(%q) =\n  %s\nwant\n  %s", tt.raw, got, tt.want)
		}
	}
}

func TestTransformKeepsExistingBlocks(t *testing.T) {
	tbl := i3bar.DefaultTable()
	raw := `,[{"name":"wireless","instance":"wlan0","markup":"none","full_text":"W: (70% at x) 10.0.0.2","color":"#00FF00","separator":false,"min_width":"100%","extra":{"n":[1,2.5,null]}},` +
		`{"name":"tztime","full_text":"<span>2026-10-19 12:00</span>"}]`

	got, err := Transform(raw, block(tbl.Encoded(true)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, ",[") {
		t.Fatalf("separator lost: %s", got)
	}

	var in, out []map[string]any
	if err := json.Unmarshal([]byte(raw[1:]), &in); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(got[1:]), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in)+1 {
		t.Fatalf("got %d blocks, want %d", len(out), len(in)+1)
	}

	for i := range in {
		a, _ := json.Marshal(in[i])
		b, _ := json.Marshal(out[i])
		if string(a) != string(b) {
			t.Errorf("block %d changed:\n  in  %s\n  out %s", i, a, b)
		}
	}
	if out[len(out)-1]["name"] != i3bar.Name {
		t.Errorf("last block = %v, want derived block", out[len(out)-1])
	}
	if !strings.Contains(got, "<span>") {
		t.Errorf("markup was escaped: %s", got)
	}
}

func TestTransformAppendsExactlyOne(t *testing.T) {
	tbl := i3bar.DefaultTable()
	for k := 0; k < 5; k++ {
		elems := make([]string, k)
		for i := range elems {
			elems[i] = `{"full_text":"` + strings.Repeat("x", i) + `"}`
		}
		raw := "[" + strings.Join(elems, ",") + "]"

		got, err := Transform(raw, block(tbl.Encoded(false)))
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		var out []json.RawMessage
		if err := json.Unmarshal([]byte(got), &out); err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if len(out) != k+1 {
			t.Fatalf("k=%d: got %d blocks", k, len(out))
		}
		for i := 0; i < k; i++ {
			if string(out[i]) != elems[i] {
				t.Errorf("k=%d block %d = %s, want %s", k, i, out[i], elems[i])
			}
		}
		if string(out[k]) != string(tbl.Encoded(false)) {
			t.Errorf("k=%d appended %s", k, out[k])
		}
	}
}

func TestTransformMalformed(t *testing.T) {
	tbl := i3bar.DefaultTable()
	for _, raw := range []string{",", ",,[]", "[", "null", `{"full_text":"a"}`, `[{"a":1}] trailing`} {
		called := false
		_, err := Transform(raw, func() (json.RawMessage, error) {
			called = true
			return tbl.Encoded(true), nil
		})
		if !errors.Is(err, ErrMalformedLine) {
			t.Errorf("Transform(%q) error = %v, want ErrMalformedLine", raw, err)
		}
		if called {
			t.Errorf("Transform(%q) derived a block for a malformed line", raw)
		}
	}
}

func TestTransformPassesNonObjectElements(t *testing.T) {
	tbl := i3bar.DefaultTable()
	tests := []struct {
		raw  string
		want string
	}{
		{`[1]`, `[1,` + string(tbl.Encoded(true)) + `]`},
		{`,["a",null,[2]]`, `,["a",null,[2],` + string(tbl.Encoded(true)) + `]`},
	}
	for _, tt := range tests {
		got, err := Transform(tt.raw, block(tbl.Encoded(true)))
		if err != nil {
			t.Errorf("Transform(%q) error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Transform(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestTransformDeriveError(t *testing.T) {
	want := errors.New("server gone")
	_, err := Transform(`[]`, func() (json.RawMessage, error) { return nil, want })
	if !errors.Is(err, want) {
		t.Errorf("Transform error = %v, want %v", err, want)
	}
}
