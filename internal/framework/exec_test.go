package framework

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flarebyte/artisan-helper/internal/config"
)

func requirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("exec tests require POSIX shell")
	}
}

// shellFramework runs script with the framework command bound to $1.
func shellFramework(t *testing.T, script string) config.Framework {
	t.Helper()
	return config.Framework{
		Program:          "sh",
		Args:             []string{"-c", script, "artisan"},
		WorkingDir:       t.TempDir(),
		TimeoutMs:        5000,
		TermGraceMs:      50,
		KillProcessGroup: true,
	}
}

func TestExecRunner_StreamsOutput(t *testing.T) {
	requirePOSIXShell(t)
	var out bytes.Buffer
	r := NewExecRunner(shellFramework(t, `printf '%s|%s' "$1" "$2"`), ExecOptions{Stdout: &out})
	if err := r.Call(context.Background(), "cache:clear", "--force"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if out.String() != "cache:clear|--force" {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requirePOSIXShell(t)
	var errOut bytes.Buffer
	r := NewExecRunner(shellFramework(t, `printf 'bad' >&2; exit 7`), ExecOptions{Stderr: &errOut})
	err := r.Call(context.Background(), "migrate:fresh")
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CallError, got %v", err)
	}
	if ce.Code != 7 || ce.ExitCode() != 7 || ce.TimedOut {
		t.Fatalf("unexpected call error: %+v", ce)
	}
	if err.Error() != "framework command migrate:fresh exited with code 7" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if errOut.String() != "bad" {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	requirePOSIXShell(t)
	fw := shellFramework(t, `sleep 5`)
	fw.TimeoutMs = 100
	r := NewExecRunner(fw, ExecOptions{})
	err := r.Call(context.Background(), "db:seed")
	var ce *CallError
	if !errors.As(err, &ce) || !ce.TimedOut {
		t.Fatalf("expected timeout, got %v", err)
	}
	if ce.ExitCode() != 1 {
		t.Fatalf("timeout exit code: want 1 got %d", ce.ExitCode())
	}
}

func TestExecRunner_ContextCancel(t *testing.T) {
	requirePOSIXShell(t)
	r := NewExecRunner(shellFramework(t, `sleep 5`), ExecOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Call(ctx, "db:seed")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecRunner_ProgramNotFound(t *testing.T) {
	fw := config.Framework{Program: "helper-missing-program-for-tests", WorkingDir: t.TempDir()}
	err := NewExecRunner(fw, ExecOptions{}).Call(context.Background(), "view:clear")
	if err == nil || !strings.Contains(err.Error(), "program helper-missing-program-for-tests not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecRunner_EnvFileOverlay(t *testing.T) {
	requirePOSIXShell(t)
	fw := shellFramework(t, `printf '%s' "$HELPER_TEST_FROM_DOTENV"`)
	fw.EnvFile = ".env"
	if err := os.WriteFile(filepath.Join(fw.WorkingDir, ".env"), []byte("HELPER_TEST_FROM_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	var out bytes.Buffer
	if err := NewExecRunner(fw, ExecOptions{Stdout: &out}).Call(context.Background(), "config:cache"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if out.String() != "from-file" {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
}

func TestExecRunner_Argv(t *testing.T) {
	fw := config.Framework{Program: "php", Args: []string{"artisan"}}
	r := NewExecRunner(fw, ExecOptions{AppEnv: "staging"})
	got := r.Argv("route:cache")
	want := []string{"php", "artisan", "route:cache", "--env=staging"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("argv (-want +got):\n%s", diff)
	}
}

func TestApplyEnvOverlay_ProcessWins(t *testing.T) {
	base := []string{"APP_ENV=production", "PATH=/bin"}
	got := applyEnvOverlay(base, map[string]string{"APP_ENV": "local", "DB_HOST": "db", "CACHE": "redis"})
	want := []string{"APP_ENV=production", "PATH=/bin", "CACHE=redis", "DB_HOST=db"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("env (-want +got):\n%s", diff)
	}
}

func TestRecorder(t *testing.T) {
	boom := errors.New("boom")
	r := &Recorder{Fail: map[string]error{"db:wipe": boom}}
	if err := r.Call(context.Background(), "cache:clear"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Call(context.Background(), "db:wipe", "--force"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if diff := cmp.Diff([]string{"cache:clear", "db:wipe"}, r.Commands()); diff != "" {
		t.Fatalf("commands (-want +got):\n%s", diff)
	}
	if r.Calls[1].String() != "db:wipe --force" {
		t.Fatalf("unexpected call string: %q", r.Calls[1].String())
	}
}
