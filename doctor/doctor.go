// Package doctor checks the sound server and the indicator light from a
// terminal.
package doctor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"i3pamicstatus/audio"
	"i3pamicstatus/indicator"
	"i3pamicstatus/status"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type Doctor struct {
	ClientName string
	Connect    func(clientName string) (audio.Server, error)
	Light      indicator.Light

	In  io.Reader
	Out io.Writer
	// Interactive enables the light confirmation prompt.
	Interactive bool
}

// New returns a doctor wired to the real sound server, prompting only when
// stdin is a terminal.
func New(clientName string, light indicator.Light) *Doctor {
	return &Doctor{
		ClientName:  clientName,
		Connect:     audio.Connect,
		Light:       light,
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Run executes the checks and returns an exit code (0=all pass, 1=any fail).
func (d *Doctor) Run() int {
	if d.Interactive {
		resetTerminal()
		setupInterruptHandler()
	}

	d.println("i3pamicstatus doctor - system diagnostics")
	d.println("=========================================")

	srv, ok := d.checkServer()
	allPass := ok
	if ok {
		defer srv.Close()
		if !d.checkState(srv) {
			allPass = false
		}
	}
	if !d.checkLight() {
		allPass = false
	}

	d.println("")
	if allPass {
		d.println("All checks passed!")
		return 0
	}
	d.println("Some checks failed. See details above.")
	return 1
}

func (d *Doctor) checkServer() (audio.Server, bool) {
	d.println("")
	d.println("[1/3] Sound server")

	srv, err := d.Connect(d.ClientName)
	if err != nil {
		d.fail("cannot connect to PulseAudio: %v", err)
		return nil, false
	}

	sources, err := srv.Sources()
	if err != nil {
		srv.Close()
		d.fail("cannot list sources: %v", err)
		return nil, false
	}
	def, err := srv.DefaultSourceName()
	if err != nil {
		srv.Close()
		d.fail("cannot read server info: %v", err)
		return nil, false
	}

	for _, s := range sources {
		marker := " "
		if s.Name == def {
			marker = "*"
		}
		muted := "no"
		if s.Muted {
			muted = "yes"
		}
		kind := "input"
		if s.Monitor() {
			kind = "monitor"
		}
		d.printf(" %s #%d %s\n", marker, s.Index, s.Description)
		d.println(dimStyle.Render(fmt.Sprintf("      %s  %s state=%s muted=%s", s.Name, kind, s.State, muted)))
	}

	if def == "" {
		d.println("  " + skipStyle.Render("WARN") + ": no default source configured, muted mode will always show muted")
	} else if _, found := audio.FindSource(sources, def); !found {
		d.println("  " + skipStyle.Render("WARN") + fmt.Sprintf(": default source %q not found", def))
	}
	d.pass("connected, %d source(s)", len(sources))
	return srv, true
}

func (d *Doctor) checkState(srv audio.Server) bool {
	d.println("")
	d.println("[2/3] Microphone state")

	listening, err := status.Listening(srv)
	if err != nil {
		d.fail("listening query: %v", err)
		return false
	}
	unmuted, err := status.Unmuted(srv)
	if err != nil {
		d.fail("muted query: %v", err)
		return false
	}

	d.printf("  listening mode: %s\n", onOff(listening))
	d.printf("  muted mode (--show-muted): %s\n", onOff(unmuted))
	d.pass("both queries answered")
	return true
}

func (d *Doctor) checkLight() bool {
	d.println("")
	d.println("[3/3] Indicator light")

	if _, ok := d.Light.(indicator.Noop); ok || d.Light == nil {
		d.skip("indicator disabled or hidraw unavailable")
		return true
	}

	if f, ok := d.Light.(interface{ Find() (string, error) }); ok {
		path, err := f.Find()
		if err != nil {
			d.skip("%s: %v", d.Light.Name(), err)
			return true
		}
		d.printf("  found %s at %s\n", d.Light.Name(), path)
	}

	if err := d.Light.Set(true); err != nil {
		d.fail("cannot set color: %v", err)
		return false
	}
	defer d.Light.Set(false)

	if !d.Interactive {
		d.pass("color set")
		return true
	}

	d.print("Did the light turn on? [y/n]: ")
	confirm, _ := bufio.NewReader(d.In).ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		d.fail("light not confirmed")
		return false
	}
	d.pass("light verified by user")
	return true
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (d *Doctor) print(s string) { fmt.Fprint(d.Out, s) }

func (d *Doctor) println(s string) { fmt.Fprintln(d.Out, s) }

func (d *Doctor) printf(format string, args ...any) { fmt.Fprintf(d.Out, format, args...) }

func (d *Doctor) pass(format string, args ...any) {
	d.println("  " + passStyle.Render("PASS") + ": " + fmt.Sprintf(format, args...))
}

func (d *Doctor) fail(format string, args ...any) {
	d.println("  " + failStyle.Render("FAIL") + ": " + fmt.Sprintf(format, args...))
}

func (d *Doctor) skip(format string, args ...any) {
	d.println("  " + skipStyle.Render("SKIP") + ": " + fmt.Sprintf(format, args...))
}
