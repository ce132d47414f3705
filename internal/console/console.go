// Package console writes styled, user-facing command output and carries the
// diagnostic logger shared by a helper invocation.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
)

// Options configures a Console.
type Options struct {
	Out     io.Writer
	Err     io.Writer
	Quiet   bool
	Verbose int
	NoColor bool
}

// Console prints info, comment, warning and plain lines.
type Console struct {
	out   io.Writer
	err   io.Writer
	quiet bool
	log   hclog.Logger

	info    *color.Color
	comment *color.Color
	warn    *color.Color
}

// New creates a console from opts. Nil writers default to stdout and stderr.
func New(opts Options) *Console {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errw := opts.Err
	if errw == nil {
		errw = os.Stderr
	}
	c := &Console{
		out:     out,
		err:     errw,
		quiet:   opts.Quiet,
		info:    color.New(color.FgGreen),
		comment: color.New(color.FgYellow),
		warn:    color.New(color.FgBlack, color.BgYellow),
	}
	if opts.NoColor || !isTerminal(out) {
		c.info.DisableColor()
		c.comment.DisableColor()
		c.warn.DisableColor()
	}
	c.log = hclog.New(&hclog.LoggerOptions{
		Name:   "helper",
		Level:  levelFor(opts.Verbose, opts.Quiet),
		Output: errw,
		Color:  hclog.ColorOff,
	})
	return c
}

// Discard returns a console that drops everything.
func Discard() *Console {
	return New(Options{Out: io.Discard, Err: io.Discard, NoColor: true})
}

func levelFor(verbose int, quiet bool) hclog.Level {
	switch {
	case quiet:
		return hclog.Error
	case verbose >= 2:
		return hclog.Trace
	case verbose == 1:
		return hclog.Debug
	default:
		return hclog.Warn
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return !color.NoColor && term.IsTerminal(int(f.Fd()))
}

// Logger returns the diagnostic logger.
func (c *Console) Logger() hclog.Logger { return c.log }

// Out returns the writer used for regular output.
func (c *Console) Out() io.Writer {
	if c.quiet {
		return io.Discard
	}
	return c.out
}

// Info prints a success message.
func (c *Console) Info(format string, args ...any) {
	c.print(c.info, format, args...)
}

// Comment prints a secondary message.
func (c *Console) Comment(format string, args ...any) {
	c.print(c.comment, format, args...)
}

// Warn prints a warning. Warnings go to stdout like the rest of the command
// output so progress and warnings stay in order.
func (c *Console) Warn(format string, args ...any) {
	c.print(c.warn, format, args...)
}

// Line prints an unstyled message.
func (c *Console) Line(format string, args ...any) {
	if c.quiet {
		return
	}
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Error prints an error to the error writer, even when quiet.
func (c *Console) Error(format string, args ...any) {
	_, _ = fmt.Fprintf(c.err, format+"\n", args...)
}

func (c *Console) print(col *color.Color, format string, args ...any) {
	if c.quiet {
		return
	}
	_, _ = col.Fprintf(c.out, format, args...)
	_, _ = fmt.Fprintln(c.out)
}
