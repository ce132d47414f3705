package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/flarebyte/artisan-helper/internal/config"
)

// ExecRunner runs framework commands as child processes, streaming their
// output.
type ExecRunner struct {
	cfg    config.Framework
	appEnv string
	stdout io.Writer
	stderr io.Writer
	log    hclog.Logger
}

// ExecOptions configures an ExecRunner.
type ExecOptions struct {
	// AppEnv is forwarded as --env=<value> when set.
	AppEnv string
	Stdout io.Writer
	Stderr io.Writer
	Logger hclog.Logger
}

// NewExecRunner creates a runner for cfg.
func NewExecRunner(cfg config.Framework, opts ExecOptions) *ExecRunner {
	r := &ExecRunner{
		cfg:    cfg,
		appEnv: opts.AppEnv,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		log:    opts.Logger,
	}
	if r.stdout == nil {
		r.stdout = io.Discard
	}
	if r.stderr == nil {
		r.stderr = io.Discard
	}
	if r.log == nil {
		r.log = hclog.NewNullLogger()
	}
	return r
}

// Argv returns the program and arguments used for command.
func (r *ExecRunner) Argv(command string, args ...string) []string {
	argv := make([]string, 0, len(r.cfg.Args)+len(args)+3)
	argv = append(argv, r.cfg.Program)
	argv = append(argv, r.cfg.Args...)
	argv = append(argv, command)
	argv = append(argv, args...)
	if r.appEnv != "" {
		argv = append(argv, "--env="+r.appEnv)
	}
	return argv
}

// Call runs command and waits for it, honoring the configured timeout and
// ctx cancellation.
func (r *ExecRunner) Call(ctx context.Context, command string, args ...string) error {
	argv := r.Argv(command, args...)
	overlay, err := r.dotEnv()
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}
	r.log.Debug("calling framework", "command", command, "argv", argv)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = r.cfg.WorkingDir
	cmd.Env = applyEnvOverlay(os.Environ(), overlay)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if r.cfg.KillProcessGroup {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		var ee *exec.Error
		if errors.As(err, &ee) {
			return &CallError{Command: command, Code: -1, Msg: fmt.Sprintf("program %s not found", r.cfg.Program)}
		}
		return &CallError{Command: command, Code: -1, Msg: fmt.Sprintf("program %s start failed", r.cfg.Program)}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if r.cfg.TimeoutMs > 0 {
		timer := time.NewTimer(time.Duration(r.cfg.TimeoutMs) * time.Millisecond)
		defer timer.Stop()
		timeout = timer.C
	}

	var runErr error
	timedOut := false
	select {
	case runErr = <-done:
	case <-timeout:
		timedOut = true
		runErr = r.terminate(cmd, done)
	case <-ctx.Done():
		_ = r.terminate(cmd, done)
		return ctx.Err()
	}
	r.log.Debug("framework returned", "command", command, "elapsed", time.Since(start).Round(time.Millisecond))

	if timedOut {
		return &CallError{Command: command, Code: -2, TimedOut: true}
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return &CallError{Command: command, Code: exitErr.ExitCode()}
		}
		return &CallError{Command: command, Code: -1, Msg: fmt.Sprintf("program %s execution failed", r.cfg.Program)}
	}
	return nil
}

// terminate sends SIGTERM, waits the grace period, then SIGKILL.
func (r *ExecRunner) terminate(cmd *exec.Cmd, done <-chan error) error {
	signalProcess(cmd, r.cfg.KillProcessGroup, syscall.SIGTERM)
	grace := time.NewTimer(time.Duration(r.cfg.TermGraceMs) * time.Millisecond)
	defer grace.Stop()
	select {
	case err := <-done:
		return err
	case <-grace.C:
		signalProcess(cmd, r.cfg.KillProcessGroup, syscall.SIGKILL)
		return <-done
	}
}

// dotEnv reads the application env file. A missing file is not an error.
func (r *ExecRunner) dotEnv() (map[string]string, error) {
	if r.cfg.EnvFile == "" {
		return nil, nil
	}
	p := r.cfg.EnvFile
	if !filepath.IsAbs(p) && r.cfg.WorkingDir != "" {
		p = filepath.Join(r.cfg.WorkingDir, p)
	}
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return godotenv.Read(p)
}

func signalProcess(cmd *exec.Cmd, killGroup bool, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if killGroup && pid > 0 {
		if err := syscall.Kill(-pid, sig); err == nil {
			return
		}
	}
	_ = cmd.Process.Signal(sig)
}

// applyEnvOverlay adds overlay entries that base does not already define.
// The process environment wins over the env file, as the framework does.
func applyEnvOverlay(base []string, overlay map[string]string) []string {
	out := append([]string(nil), base...)
	if len(overlay) == 0 {
		return out
	}
	present := map[string]bool{}
	for _, kv := range base {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				if i > 0 {
					present[kv[:i]] = true
				}
				break
			}
		}
	}
	keys := sortedKeys(overlay)
	for _, k := range keys {
		if present[k] {
			continue
		}
		out = append(out, k+"="+overlay[k])
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
