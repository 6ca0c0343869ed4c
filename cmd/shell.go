// Package cmd provides utilities that underlie the specific commands.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jmhodges/clock"

	blog "github.com/cfsamson/print-perf/log"
)

// NewLogger builds the Logger a command uses and installs it as the
// singleton. It writes to standard error, tinted if colour is set, and
// includes debug messages if verbose is set.
func NewLogger(verbose, colour bool) blog.Logger {
	logger := newLogger(os.Stderr, verbose, colour)
	_ = blog.Set(logger)
	return logger
}

func newLogger(out io.Writer, verbose, colour bool) blog.Logger {
	level := blog.LevelInfo
	if verbose {
		level = blog.LevelDebug
	}
	return blog.New(out, level, colour, clock.New())
}

// FailOnError exits and prints an error message if we encountered a problem
func FailOnError(err error, msg string) {
	if err != nil {
		blog.Get().Err(fmt.Sprintf("%s: %s", msg, err))
		os.Exit(1)
	}
}
