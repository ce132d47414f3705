package main

import (
	"errors"
	"os"
	"strings"

	"github.com/flarebyte/artisan-helper/cmd/helper/root"
	"github.com/flarebyte/artisan-helper/internal/console"
)

type exitCoder interface {
	ExitCode() int
}

func main() {
	if err := root.Execute(os.Args[1:]); err != nil {
		// Print a short, single-line error to stderr on failures.
		// Do not print usage or stack traces.
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		console.New(console.Options{Err: os.Stderr, Quiet: true}).Error("%s", msg)
		code := 1
		var ec exitCoder
		if errors.As(err, &ec) {
			if c := ec.ExitCode(); c != 0 {
				code = c
			}
		}
		os.Exit(code)
	}
}
