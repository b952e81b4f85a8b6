//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// Keep at most this much terminal output
const outputLimit = 1 << 20

var binPath = "geopick_e2e"

// Keys understood by the picker
const (
	KeyEnter    = "\r"
	KeyCtrlC    = "\x03"
	KeySpace    = " "
	KeyDown     = "j"
	KeyQuit     = "q"
	KeySave     = "s"
	KeyWildcard = "w"
	KeyFilter   = "/"
	KeyHelp     = "?"
)

// Strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// Driver runs the picker binary in a pseudo terminal and records its output
type Driver struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu  sync.Mutex
	out bytes.Buffer
}

// NewDriver creates a driver; call CreateTestWorkspace before StartApp
func NewDriver(t *testing.T) *Driver {
	return &Driver{t: t}
}

// StartApp launches geopick inside the workspace
func (d *Driver) StartApp(args ...string) error {
	d.cmd = exec.Command(binPath, args...)
	d.cmd.Dir = d.workspace
	d.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+d.workspace,
		"GEOPICK_CONFIG=",
		"GEOPICK_PROVIDER=",
		"GEOPICK_PROVIDER_PATH=",
		"GEOPICK_PROVIDER_DSN=",
	)

	f, err := pty.StartWithSize(d.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start picker: %w", err)
	}
	d.pty = f
	go d.record(f)
	return nil
}

func (d *Driver) record(f *os.File) {
	chunk := make([]byte, 8192)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			d.mu.Lock()
			d.out.Write(chunk[:n])
			if over := d.out.Len() - outputLimit; over > 0 {
				d.out.Next(over)
			}
			d.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw keystrokes to the terminal
func (d *Driver) SendKeys(keys string) error {
	d.t.Helper()
	_, err := d.pty.Write([]byte(keys))
	return err
}

func (d *Driver) SendCtrlC() error { return d.SendKeys(KeyCtrlC) }
func (d *Driver) Save() error { return d.SendKeys(KeySave) }
func (d *Driver) Wildcard() error { return d.SendKeys(KeyWildcard) }
func (d *Driver) Select() error { return d.SendKeys(KeySpace) }
func (d *Driver) Enter() error { return d.SendKeys(KeyEnter) }
func (d *Driver) Down() error { return d.SendKeys(KeyDown) }
func (d *Driver) Quit() error { return d.SendKeys(KeyQuit) }

// Filter opens the search prompt and types query
func (d *Driver) Filter(query string) error {
	if err := d.SendKeys(KeyFilter); err != nil {
		return err
	}
	return d.SendKeys(query)
}

// Ready waits for the first frame
func (d *Driver) Ready() bool {
	d.t.Helper()
	return d.Expect("geopick", 5*time.Second) == nil
}

// SeePlain waits for text to appear in the ANSI-stripped output
func (d *Driver) SeePlain(text string) bool {
	d.t.Helper()
	return d.Expect(text, 3*time.Second) == nil
}

// Expect waits for text and reports the tail of the screen when it never shows
func (d *Driver) Expect(text string, timeout time.Duration) error {
	d.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		plain := d.SnapshotPlain()
		if strings.Contains(plain, text) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%q not shown within %s\n--- tail ---\n%s", text, timeout, tail(plain, 4096))
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// SnapshotPlain returns everything printed so far without escape sequences
func (d *Driver) SnapshotPlain() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ansiRe.ReplaceAllString(d.out.String(), "")
}

// DumpTailOnFail writes the last n bytes of output next to the test's temp files
func (d *Driver) DumpTailOnFail(t *testing.T, name string, n int) {
	t.Helper()
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(tail(d.SnapshotPlain(), n)), 0o644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the terminal, which hangs up the picker, and reaps it
func (d *Driver) Cleanup() {
	if d.pty != nil {
		_ = d.pty.Close()
		d.pty = nil
	}
	if d.cmd != nil && d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
		_, _ = d.cmd.Process.Wait()
		d.cmd = nil
	}
}

func tail(s string, n int) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
