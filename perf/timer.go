// Package perf provides ad-hoc execution timers for print-style performance
// investigation. A Timer is started at a point in code, optionally reports
// intermediate checkpoints with Split and Lap, and is closed with End. Every
// call writes one human readable line to the Reporter's writer, standard
// error by default:
//
//	t := perf.Here("load config")
//	cfg := load()
//	t.Lap("parsed")
//	validate(cfg)
//	t.End()
//	// 0.012003417 (load config - parsed - lap 1)
//	// 0.019551263 (load config - end) @ [app/main.go:31]
//
// The exact output is meant for people and is not stable across versions.
package perf

import (
	"errors"
	"time"
)

var (
	// ErrClosed is the panic value, wrapped, when a Timer is used after End.
	ErrClosed = errors.New("timer used after End")

	// ErrWrite is wrapped into the panic value when a timer line could not
	// be written. Lost diagnostic output has no useful fallback.
	ErrWrite = errors.New("writing timer output")
)

// Timer measures elapsed time from the moment it was started. A Timer is
// meant to be used by one goroutine; Lap mutates it and concurrent calls on
// the same Timer must be serialized by the caller.
type Timer struct {
	r      *Reporter
	label  string
	origin string
	start  time.Time

	// open is nil once End has been called.
	open *laps
}

// laps is the part of a Timer that only Lap changes.
type laps struct {
	// last is the anchor of the next lap: the start instant until the
	// first Lap, then the instant the previous Lap finished.
	last time.Time
	next int
}

// New starts a Timer on the Default reporter. The label identifies the
// measurement and origin describes where it was started; both are printed
// verbatim.
func New(label, origin string) *Timer {
	return Default().Start(label, origin)
}

// Here starts a Timer on the Default reporter labelled with fmt.Sprint(v)
// and with the caller's file and line as its origin.
func Here(v any) *Timer {
	return Default().start(v, caller(2))
}

// Split writes the time elapsed since the Timer was started, together with
// msg. It does not move any anchor, so successive splits grow against the
// same origin.
func (t *Timer) Split(msg string) {
	t.mustBeOpen("Split")
	now := t.r.clk.Now()
	t.r.emit(line{
		elapsed: now.Sub(t.start),
		label:   t.label,
		msg:     msg,
	})
}

// Lap writes the time elapsed since the previous Lap, or since the Timer was
// started for the first one, together with msg and the lap number. Lap
// numbers start at 1.
func (t *Timer) Lap(msg string) {
	t.mustBeOpen("Lap")
	now := t.r.clk.Now()
	t.r.emit(line{
		elapsed: now.Sub(t.open.last),
		label:   t.label,
		msg:     msg,
		lap:     t.open.next,
	})
	// The next lap is measured from after this line was written.
	t.open.last = t.r.clk.Now()
	t.open.next++
}

// End writes the time elapsed since the Timer was started along with its
// origin, and closes the Timer. Any further call on t panics. The Timer is
// closed before the line is written, so it stays closed even if the write
// fails and End panics with ErrWrite.
func (t *Timer) End() {
	t.mustBeOpen("End")
	now := t.r.clk.Now()
	t.open = nil
	t.r.emit(line{
		elapsed: now.Sub(t.start),
		label:   t.label,
		end:     true,
		origin:  t.origin,
	})
}

// Open reports whether End has not yet been called on t.
func (t *Timer) Open() bool {
	return t.open != nil
}

// Label returns the label the Timer was started with.
func (t *Timer) Label() string {
	return t.label
}

// Origin returns the origin the Timer was started with.
func (t *Timer) Origin() string {
	return t.origin
}

func (t *Timer) mustBeOpen(op string) {
	if t.open == nil {
		panic(&UseError{Op: op, Label: t.label, Origin: t.origin})
	}
}

// UseError is the panic value raised when a closed Timer is used. It wraps
// ErrClosed.
type UseError struct {
	Op     string
	Label  string
	Origin string
}

func (e *UseError) Error() string {
	return "perf: " + e.Op + " on timer " + e.Label + " started at " + e.Origin + ": " + ErrClosed.Error()
}

func (e *UseError) Unwrap() error {
	return ErrClosed
}
