package perf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// Style selects how timer lines are rendered.
type Style int

const (
	// StylePlain renders lines as plain text.
	StylePlain Style = iota
	// StyleDecorated renders the elapsed time and label in bold yellow.
	StyleDecorated
)

func (s Style) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleDecorated:
		return "decorated"
	default:
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
}

// DetectStyle returns StyleDecorated if f is a terminal that can be expected
// to understand escape sequences, and StylePlain otherwise. Setting NO_COLOR
// to any non-empty value, or TERM to "dumb", forces StylePlain.
func DetectStyle(f *os.File) Style {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return StylePlain
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return StylePlain
	}
	return StyleDecorated
}

// ParseStyle maps "auto", "always" and "never" to a Style. "auto" defers to
// DetectStyle(f).
func ParseStyle(s string, f *os.File) (Style, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectStyle(f), nil
	case "always":
		return StyleDecorated, nil
	case "never":
		return StylePlain, nil
	default:
		return StylePlain, fmt.Errorf("unknown color mode %q, want auto, always or never", s)
	}
}

const (
	boldYellow = "\033[1m\033[33m"
	reset      = "\033[0m"
)

// line is everything one Split, Lap or End call reports.
type line struct {
	elapsed time.Duration
	label   string
	msg     string
	// lap is the lap number, 0 for lines that are not laps.
	lap    int
	end    bool
	origin string
}

// render formats l as
//
//	<seconds>.<nanoseconds> (<label>[ - <msg>][ - lap <n>][ - end])[ @ <origin>]
//
// followed by a newline. Only the part before the origin is decorated.
func render(st Style, l line) string {
	var b strings.Builder
	if st == StyleDecorated {
		b.WriteString(boldYellow)
	}
	b.WriteString(formatElapsed(l.elapsed))
	b.WriteString(" (")
	b.WriteString(l.label)
	if l.msg != "" {
		b.WriteString(" - ")
		b.WriteString(l.msg)
	}
	if l.lap > 0 {
		b.WriteString(" - lap ")
		b.WriteString(strconv.Itoa(l.lap))
	}
	if l.end {
		b.WriteString(" - end")
	}
	b.WriteString(")")
	if st == StyleDecorated {
		b.WriteString(reset)
	}
	if l.end {
		b.WriteString(" @ ")
		b.WriteString(l.origin)
	}
	b.WriteString("\n")
	return b.String()
}

// formatElapsed renders d as whole seconds and a nine digit nanosecond
// remainder. Negative durations, which only a non-monotonic clock can
// produce, render as zero.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d.%09d", int64(d/time.Second), int64(d%time.Second))
}
