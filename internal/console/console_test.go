package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsole_PlainOutput(t *testing.T) {
	var out, errw bytes.Buffer
	c := New(Options{Out: &out, Err: &errw, NoColor: true})
	c.Info("Finished %s", "building")
	c.Comment("Cache:")
	c.Warn("No logs to compress")
	c.Line("")
	want := "Finished building\nCache:\nNo logs to compress\n\n"
	if out.String() != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, out.String())
	}
	if errw.Len() != 0 {
		t.Fatalf("unexpected stderr: %q", errw.String())
	}
}

func TestConsole_QuietKeepsErrors(t *testing.T) {
	var out, errw bytes.Buffer
	c := New(Options{Out: &out, Err: &errw, Quiet: true, NoColor: true})
	c.Info("hidden")
	c.Line("hidden")
	c.Error("boom: %d", 7)
	if out.Len() != 0 {
		t.Fatalf("quiet console wrote output: %q", out.String())
	}
	if strings.TrimSpace(errw.String()) != "boom: 7" {
		t.Fatalf("unexpected stderr: %q", errw.String())
	}
}

func TestConsole_VerboseLogsDebug(t *testing.T) {
	var out, errw bytes.Buffer
	c := New(Options{Out: &out, Err: &errw, Verbose: 1, NoColor: true})
	c.Logger().Debug("calling framework", "command", "cache:clear")
	if !strings.Contains(errw.String(), "calling framework") || !strings.Contains(errw.String(), "command=cache:clear") {
		t.Fatalf("missing debug log: %q", errw.String())
	}
}

func TestConsole_DefaultHidesDebug(t *testing.T) {
	var errw bytes.Buffer
	c := New(Options{Out: &bytes.Buffer{}, Err: &errw, NoColor: true})
	c.Logger().Debug("hidden")
	if errw.Len() != 0 {
		t.Fatalf("debug leaked at default level: %q", errw.String())
	}
}
