package cmd

import (
	"bytes"
	"testing"

	"github.com/cfsamson/print-perf/test"
)

func TestNewLoggerColour(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, false).Err("plain")
	test.AssertContains(t, buf.String(), "plain")
	test.AssertNotContains(t, buf.String(), "\033")

	buf.Reset()
	newLogger(&buf, false, true).Err("tinted")
	test.AssertContains(t, buf.String(), "\033[31m")
}

func TestNewLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, false).Debug("hidden")
	test.AssertEquals(t, buf.Len(), 0)

	newLogger(&buf, true, false).Debug("shown")
	test.AssertContains(t, buf.String(), "shown")
}
