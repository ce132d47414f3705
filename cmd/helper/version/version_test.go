package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/artisan-helper/internal/buildinfo"
)

func TestVersionDefaultOutputStable(t *testing.T) {
	oldVersion, oldCommit, oldDate := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	defer func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = oldVersion, oldCommit, oldDate
	}()
	buildinfo.Version = ""
	buildinfo.Commit = ""
	buildinfo.Date = ""

	cmd := NewCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "helper dev\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestVersionJSON(t *testing.T) {
	oldVersion := buildinfo.Version
	defer func() { buildinfo.Version = oldVersion }()
	buildinfo.Version = "1.4.0"

	cmd := NewCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if got["version"] != "1.4.0" {
		t.Fatalf("unexpected version: %v", got["version"])
	}
	if !strings.HasPrefix(errOut.String(), "helper version: 1.4.0") {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
	if _, err := time.Parse(time.RFC3339Nano, got["timestamp"].(string)); err != nil {
		t.Fatalf("timestamp: %v", err)
	}
}
