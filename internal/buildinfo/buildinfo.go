// Package buildinfo exposes version metadata for the CLI. Values can be
// overridden with -ldflags; release scripts may set cli.Version and cli.Date
// instead.
package buildinfo

import (
	"strings"

	"github.com/flarebyte/artisan-helper/cli"
)

var (
	Version = ""
	Commit  = ""
	Date    = ""
	BuiltBy = ""
)

// Resolved returns the version, falling back to cli.Version and then "dev".
func Resolved() string {
	switch {
	case Version != "":
		return Version
	case cli.Version != "":
		return cli.Version
	default:
		return "dev"
	}
}

// BuildDate returns Date or cli.Date.
func BuildDate() string {
	if Date != "" {
		return Date
	}
	return cli.Date
}

// Summary returns a concise single-line version string, for example
// "1.2.0 (commit=abcdef1, date=2026-02-09)".
func Summary() string {
	v := Resolved()
	var parts []string
	if c := Commit; c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if d := BuildDate(); d != "" {
		parts = append(parts, "date="+d)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}
