package perf

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/jmhodges/clock"
)

// A Reporter is where Timers get their time from and write their lines to.
// A Reporter is immutable and may be shared by any number of Timers.
type Reporter struct {
	clk   clock.Clock
	w     io.Writer
	style Style
}

// NewReporter returns a Reporter reading instants from clk and writing one
// line per timer call to w, rendered in the given style.
func NewReporter(clk clock.Clock, w io.Writer, style Style) *Reporter {
	return &Reporter{clk: clk, w: w, style: style}
}

var defaultReporter struct {
	once sync.Once
	r    *Reporter
}

// Default returns the process-wide Reporter: the real clock, standard error,
// and a style chosen by DetectStyle the first time Default is called.
func Default() *Reporter {
	defaultReporter.once.Do(func() {
		defaultReporter.r = NewReporter(clock.New(), os.Stderr, DetectStyle(os.Stderr))
	})
	return defaultReporter.r
}

// Style returns the style r renders lines in.
func (r *Reporter) Style() Style {
	return r.style
}

// Start starts a new Timer. No output is written.
func (r *Reporter) Start(label, origin string) *Timer {
	now := r.clk.Now()
	return &Timer{
		r:      r,
		label:  label,
		origin: origin,
		start:  now,
		open:   &laps{last: now, next: 1},
	}
}

// Here starts a Timer labelled with fmt.Sprint(v) and with the caller's file
// and line as its origin.
func (r *Reporter) Here(v any) *Timer {
	return r.start(v, caller(2))
}

func (r *Reporter) start(v any, origin string) *Timer {
	return r.Start(fmt.Sprint(v), origin)
}

// emit writes one rendered line. The whole line goes out in a single Write
// so that lines from different timers sharing w do not interleave.
func (r *Reporter) emit(l line) {
	_, err := io.WriteString(r.w, render(r.style, l))
	if err != nil {
		panic(fmt.Errorf("perf: %w: %w", ErrWrite, err))
	}
}

// caller returns "[dir/file.go:line]" for the frame skip levels above it.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "[unknown]"
	}
	splits := strings.Split(file, "/")
	if len(splits) > 2 {
		splits = splits[len(splits)-2:]
	}
	return fmt.Sprintf("[%s:%d]", strings.Join(splits, "/"), line)
}
