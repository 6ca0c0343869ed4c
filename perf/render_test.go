package perf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cfsamson/print-perf/test"
)

func TestFormatElapsed(t *testing.T) {
	for _, tc := range []struct {
		d    time.Duration
		want string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{999999999, "0.999999999"},
		{time.Second, "1.000000000"},
		{90*time.Second + 5*time.Millisecond, "90.005000000"},
		{-time.Second, "0.000000000"},
	} {
		test.AssertEquals(t, formatElapsed(tc.d), tc.want)
	}
}

func TestRenderPlain(t *testing.T) {
	for _, tc := range []struct {
		name string
		l    line
		want string
	}{
		{"split", line{elapsed: time.Second, label: "work", msg: "a"}, "1.000000000 (work - a)\n"},
		{"split without msg", line{label: "work"}, "0.000000000 (work)\n"},
		{"lap", line{elapsed: 250 * time.Millisecond, label: "work", msg: "phase1", lap: 1}, "0.250000000 (work - phase1 - lap 1)\n"},
		{"lap without msg", line{label: "work", lap: 12}, "0.000000000 (work - lap 12)\n"},
		{"end", line{elapsed: 2 * time.Second, label: "work", end: true, origin: "[main.go:12]"}, "2.000000000 (work - end) @ [main.go:12]\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.AssertEquals(t, render(StylePlain, tc.l), tc.want)
		})
	}
}

func TestRenderDecorated(t *testing.T) {
	got := render(StyleDecorated, line{elapsed: time.Second, label: "work", end: true, origin: "[o]"})
	test.AssertEquals(t, got, "\033[1m\033[33m1.000000000 (work - end)\033[0m @ [o]\n")

	got = render(StyleDecorated, line{label: "work", msg: "a"})
	test.AssertEquals(t, got, "\033[1m\033[33m0.000000000 (work - a)\033[0m\n")
}

func TestDecorationDoesNotChangeText(t *testing.T) {
	l := line{elapsed: 3, label: "x", msg: "y", lap: 2}
	plain := render(StylePlain, l)
	decorated := render(StyleDecorated, l)
	test.AssertEquals(t, boldYellow+plain[:len(plain)-1]+reset+"\n", decorated)
}

func TestStyleString(t *testing.T) {
	test.AssertEquals(t, StylePlain.String(), "plain")
	test.AssertEquals(t, StyleDecorated.String(), "decorated")
	test.AssertEquals(t, Style(9).String(), "Style(9)")
}

func notATerminal(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	test.AssertNotError(t, err, "creating temp file")
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestDetectStyle(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	test.AssertEquals(t, DetectStyle(notATerminal(t)), StylePlain)
	test.AssertEquals(t, DetectStyle(nil), StylePlain)
}

func TestDetectStyleEnvironmentOverrides(t *testing.T) {
	f := notATerminal(t)

	t.Setenv("NO_COLOR", "1")
	test.AssertEquals(t, DetectStyle(f), StylePlain)

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	test.AssertEquals(t, DetectStyle(f), StylePlain)
}

func TestParseStyle(t *testing.T) {
	f := notATerminal(t)
	for _, tc := range []struct {
		in   string
		want Style
	}{
		{"always", StyleDecorated},
		{"ALWAYS", StyleDecorated},
		{"never", StylePlain},
		{"auto", StylePlain},
		{"", StylePlain},
	} {
		st, err := ParseStyle(tc.in, f)
		test.AssertNotError(t, err, "parsing "+tc.in)
		test.AssertEquals(t, st, tc.want)
	}

	_, err := ParseStyle("sometimes", f)
	test.AssertError(t, err, "unknown mode should be rejected")
}
