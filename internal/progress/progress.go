// Package progress renders a step counter for long running helper commands.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const barWidth = 28

// Bar is a fixed width progress bar. On a terminal it redraws in place;
// otherwise it writes one line per change.
type Bar struct {
	enabled bool
	inPlace bool
	w       io.Writer

	mu      sync.Mutex
	max     int
	current int
	done    bool
}

// New creates a bar writing to w with total steps. A nil writer disables
// rendering but steps are still tracked.
func New(w io.Writer, total int) *Bar {
	b := &Bar{enabled: w != nil, w: w, max: clampMax(total)}
	if f, ok := w.(*os.File); ok {
		b.inPlace = term.IsTerminal(int(f.Fd()))
	}
	return b
}

// Disabled returns a bar that only tracks steps.
func Disabled(total int) *Bar { return New(nil, total) }

func clampMax(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// SetMaxSteps changes the total number of steps.
func (b *Bar) SetMaxSteps(n int) {
	b.mu.Lock()
	b.max = clampMax(n)
	if b.current > b.max {
		b.max = b.current
	}
	b.mu.Unlock()
}

// Advance moves the bar one step forward and redraws it.
func (b *Bar) Advance() {
	b.mu.Lock()
	b.current++
	if b.current > b.max {
		b.max = b.current
	}
	b.mu.Unlock()
	b.emit()
}

// Finish completes the bar.
func (b *Bar) Finish() {
	b.mu.Lock()
	if b.max > b.current {
		b.current = b.max
	}
	b.done = true
	b.mu.Unlock()
	b.emit()
}

// Max returns the total number of steps.
func (b *Bar) Max() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.max
}

// Current returns the number of completed steps.
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Bar) emit() {
	if b == nil || !b.enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	line := render(b.current, b.max)
	if b.inPlace {
		_, _ = fmt.Fprint(b.w, "\r"+line)
		if b.done {
			_, _ = fmt.Fprintln(b.w)
		}
		return
	}
	_, _ = fmt.Fprintln(b.w, line)
}

func render(current, total int) string {
	pct := 100
	if total > 0 {
		pct = current * 100 / total
	}
	filled := barWidth * pct / 100
	var sb strings.Builder
	width := len(fmt.Sprint(total))
	fmt.Fprintf(&sb, " %*d/%d [", width, current, total)
	switch {
	case filled >= barWidth:
		sb.WriteString(strings.Repeat("=", barWidth))
	default:
		sb.WriteString(strings.Repeat("=", filled))
		sb.WriteString(">")
		sb.WriteString(strings.Repeat("-", barWidth-filled-1))
	}
	fmt.Fprintf(&sb, "] %3d%%", pct)
	return sb.String()
}
