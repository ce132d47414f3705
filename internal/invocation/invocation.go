// Package invocation carries the per-run state of a helper command: the
// resolved signature, work-unit accounting, progress bar, timer and output.
package invocation

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/accountant"
	"github.com/flarebyte/artisan-helper/internal/console"
	"github.com/flarebyte/artisan-helper/internal/progress"
)

// Invocation is created once per command run and discarded afterwards.
type Invocation struct {
	acct *accountant.Accountant
	raw  map[string]accountant.Value
	out  *console.Console
	bar  *progress.Bar
	now  func() time.Time

	start time.Time
}

// Option customises an Invocation.
type Option func(*Invocation)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Invocation) { i.now = now }
}

// FromCommand resolves cmd's flags and positional args against sig.
func FromCommand(cmd *cobra.Command, args []string, sig accountant.Signature, out *console.Console, opts ...Option) (*Invocation, error) {
	raw, err := rawOptions(cmd, sig)
	if err != nil {
		return nil, err
	}
	return New(sig, raw, rawArguments(args, sig), out, opts...), nil
}

// New resolves raw values against sig and starts the timer.
func New(sig accountant.Signature, rawOpts, rawArgs map[string]accountant.Value, out *console.Console, opts ...Option) *Invocation {
	if out == nil {
		out = console.Discard()
	}
	inv := &Invocation{
		acct: accountant.New(sig, rawOpts, rawArgs),
		raw:  rawOpts,
		out:  out,
		now:  time.Now,
	}
	for _, o := range opts {
		o(inv)
	}
	inv.start = inv.now()
	inv.bar = progress.Disabled(inv.acct.Units())
	inv.acct.Bind(inv.bar)
	return inv
}

// StartProgress attaches a rendering progress bar sized to the current
// work-unit count.
func (i *Invocation) StartProgress() {
	i.bar = progress.New(i.out.Out(), i.acct.Units())
	i.acct.Bind(i.bar)
}

// Out returns the console.
func (i *Invocation) Out() *console.Console { return i.out }

// Accountant exposes the resolved values and counts.
func (i *Invocation) Accountant() *accountant.Accountant { return i.acct }

// Bar returns the progress bar.
func (i *Invocation) Bar() *progress.Bar { return i.bar }

// Units returns the current work-unit total.
func (i *Invocation) Units() int { return i.acct.Units() }

// Adjust corrects the work-unit total and resizes the bar.
func (i *Invocation) Adjust(delta int) { i.acct.Adjust(delta) }

// SetUnits replaces the computed total. Call Adjust(0) to resize the bar.
func (i *Invocation) SetUnits(n int) { i.acct.Override(n) }

// Enabled reports whether the option resolved to true.
func (i *Invocation) Enabled(name string) bool { return i.acct.Enabled(name) }

// Argument returns the argument or fallback.
func (i *Invocation) Argument(name string, fallback accountant.Value) accountant.Value {
	return i.acct.Argument(name, fallback)
}

// Supplied reports whether the argument was given.
func (i *Invocation) Supplied(name string) bool { return i.acct.Supplied(name) }

// RawEnabled reports the flag exactly as supplied, before "all" handling.
func (i *Invocation) RawEnabled(name string) bool { return i.raw[name].IsTrue() }

// AnyFlagSupplied reports whether any boolean flag was set to true by the
// user.
func (i *Invocation) AnyFlagSupplied() bool {
	return accountant.ResolvedSet(i.raw).AnyTrue()
}

// Advance moves the bar one step.
func (i *Invocation) Advance() { i.bar.Advance() }

// Elapsed returns the time since the invocation started.
func (i *Invocation) Elapsed() time.Duration { return i.now().Sub(i.start) }

// DisplayTimer prints the execution time.
func (i *Invocation) DisplayTimer() {
	i.out.Comment("Total execution time: %.2f seconds", i.Elapsed().Seconds())
}

// FinishLine prints the totals block and completes the bar.
func (i *Invocation) FinishLine() {
	i.out.Line("")
	i.out.Comment("Totals:")
	i.DisplayTimer()
	i.out.Comment("Total Progress performed")
	i.bar.Finish()
	i.out.Line("")
}
