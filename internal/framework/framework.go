// Package framework delegates maintenance operations to the web framework's
// own command runner, for example `php artisan config:cache`.
package framework

import (
	"context"
	"fmt"
	"strings"
)

// Runner invokes one framework command.
type Runner interface {
	Call(ctx context.Context, command string, args ...string) error
}

// CallError reports a framework command that did not succeed.
type CallError struct {
	Command  string
	Code     int
	TimedOut bool
	Msg      string
}

func (e *CallError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("framework command %s timed out", e.Command)
	case e.Msg != "":
		return fmt.Sprintf("framework command %s: %s", e.Command, e.Msg)
	default:
		return fmt.Sprintf("framework command %s exited with code %d", e.Command, e.Code)
	}
}

// ExitCode lets main propagate the child exit code.
func (e *CallError) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// Call is one recorded invocation.
type Call struct {
	Command string
	Args    []string
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

// Recorder is a Runner that records calls instead of running them.
type Recorder struct {
	Calls []Call
	// Fail maps a command name to the error returned for it.
	Fail map[string]error
}

// Call records the invocation.
func (r *Recorder) Call(_ context.Context, command string, args ...string) error {
	r.Calls = append(r.Calls, Call{Command: command, Args: append([]string(nil), args...)})
	if err, ok := r.Fail[command]; ok {
		return err
	}
	return nil
}

// Commands returns the recorded command names in order.
func (r *Recorder) Commands() []string {
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.Command)
	}
	return out
}
