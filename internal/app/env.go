// Package app holds the dependencies shared by every helper command of one
// process run.
package app

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/accountant"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/console"
	"github.com/flarebyte/artisan-helper/internal/files"
	"github.com/flarebyte/artisan-helper/internal/framework"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// Env is filled by the root command before any subcommand runs.
type Env struct {
	Config   config.Config
	Console  *console.Console
	Runner   framework.Runner
	Store    *files.Store
	Progress bool
	Options  []invocation.Option
	// Builtins holds the names custom commands may not take.
	Builtins map[string]bool
}

// Invocation resolves cmd against sig and, when enabled, starts the
// progress bar.
func (e *Env) Invocation(cmd *cobra.Command, args []string, sig accountant.Signature) (*invocation.Invocation, error) {
	inv, err := invocation.FromCommand(cmd, args, sig, e.Console, e.Options...)
	if err != nil {
		return nil, err
	}
	if e.Progress {
		inv.StartProgress()
	}
	return inv, nil
}

// Batch runs framework commands one after another. A failing command is
// reported and remembered; later commands still run unless ctx is done.
type Batch struct {
	ctx    context.Context
	runner framework.Runner
	out    *console.Console
	errs   []error
}

// NewBatch starts a batch bound to ctx.
func (e *Env) NewBatch(ctx context.Context) *Batch {
	return &Batch{ctx: ctx, runner: e.Runner, out: e.Console}
}

// Call invokes command and reports whether it succeeded.
func (b *Batch) Call(command string, args ...string) bool {
	if err := b.ctx.Err(); err != nil {
		b.errs = append(b.errs, err)
		return false
	}
	if err := b.runner.Call(b.ctx, command, args...); err != nil {
		b.out.Warn("%v", err)
		b.errs = append(b.errs, err)
		return false
	}
	return true
}

// Canceled reports whether the batch context is done.
func (b *Batch) Canceled() bool { return b.ctx.Err() != nil }

// Err joins every failure seen so far.
func (b *Batch) Err() error { return errors.Join(b.errs...) }
