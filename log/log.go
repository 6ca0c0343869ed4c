package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"

	"github.com/jmhodges/clock"
)

// A Logger logs messages with explicit priority levels. It is
// implemented by a logging back-end as provided by New() or
// NewMock().
type Logger interface {
	Err(m string)
	Warning(m string)
	Info(m string)
	Debug(m string)
	AuditPanic()
}

// Level is a message priority. The values follow syslog's numbering, so a
// lower Level is more severe.
type Level int

const (
	LevelErr     Level = 3
	LevelWarning Level = 4
	LevelInfo    Level = 6
	LevelDebug   Level = 7
)

var levelName = map[Level]string{
	LevelErr:     "ERR",
	LevelWarning: "WARNING",
	LevelInfo:    "INFO",
	LevelDebug:   "DEBUG",
}

func (l Level) String() string {
	if name, ok := levelName[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// impl implements Logger.
type impl struct {
	w writer
}

// singleton defines the object of a Singleton pattern
type singleton struct {
	once sync.Once
	log  Logger
}

// _Singleton is the single impl entity in memory
var _Singleton singleton

// Set configures the singleton Logger. This method
// must only be called once, and before calling Get the
// first time.
func Set(logger Logger) (err error) {
	if _Singleton.log != nil {
		err = errors.New("You may not call Set after it has already been implicitly or explicitly set.")
		_Singleton.log.Warning(err.Error())
	} else {
		_Singleton.log = logger
	}
	return
}

// Get obtains the singleton Logger. If Set has not been called first, this
// method initializes a Logger writing info and above to standard error,
// without colour.
func Get() Logger {
	_Singleton.once.Do(func() {
		if _Singleton.log == nil {
			_Singleton.log = New(os.Stderr, LevelInfo, false, clock.New())
		}
	})

	return _Singleton.log
}

// New returns a Logger that writes messages at or above level to out, one
// line each. When colour is set, error and warning lines are tinted.
func New(out io.Writer, level Level, colour bool, clk clock.Clock) Logger {
	return &impl{
		&streamWriter{
			out:    out,
			level:  level,
			colour: colour,
			clk:    clk,
			prog:   path.Base(os.Args[0]),
		},
	}
}

type writer interface {
	logAtLevel(Level, string)
}

// streamWriter implements writer for a single io.Writer.
type streamWriter struct {
	sync.Mutex
	out    io.Writer
	level  Level
	colour bool
	clk    clock.Clock
	prog   string
}

// Log the provided message at the appropriate level if it is enabled.
func (w *streamWriter) logAtLevel(level Level, msg string) {
	if level > w.level {
		return
	}

	const red = "\033[31m\033[1m"
	const yellow = "\033[33m"

	var prefix, reset string
	switch level {
	case LevelErr:
		prefix = "E"
		if w.colour {
			prefix, reset = red+prefix, "\033[0m"
		}
	case LevelWarning:
		prefix = "W"
		if w.colour {
			prefix, reset = yellow+prefix, "\033[0m"
		}
	case LevelInfo:
		prefix = "I"
	case LevelDebug:
		prefix = "D"
	default:
		prefix = "?"
		msg = fmt.Sprintf("%s (unknown logging level: %d)", msg, int(level))
	}

	w.Lock()
	defer w.Unlock()
	_, err := fmt.Fprintf(w.out, "%s%s %s %s%s\n",
		prefix,
		w.clk.Now().Format("150405"),
		w.prog,
		msg,
		reset)
	if err != nil && w.out != os.Stderr {
		fmt.Fprintf(os.Stderr, "Failed to write log message: %s (%s)\n", msg, err)
	}
}

// AuditPanic catches panicking executables. This method should be added
// in a defer statement as early as possible. The panic is logged and then
// re-raised so the process still dies.
func (log *impl) AuditPanic() {
	err := recover()
	if err == nil {
		return
	}
	buf := make([]byte, 8192)
	log.Err(fmt.Sprintf("Panic caused by err: %s", err))

	n := runtime.Stack(buf, false)
	log.Err(fmt.Sprintf("Stack Trace (Current frame) %s", buf[:n]))
	panic(err)
}

// Err level messages are for failures the program cannot recover from.
func (log *impl) Err(msg string) {
	log.w.logAtLevel(LevelErr, msg)
}

// Warning level messages pass through normally.
func (log *impl) Warning(msg string) {
	log.w.logAtLevel(LevelWarning, msg)
}

// Info level messages pass through normally.
func (log *impl) Info(msg string) {
	log.w.logAtLevel(LevelInfo, msg)
}

// Debug level messages pass through normally.
func (log *impl) Debug(msg string) {
	log.w.logAtLevel(LevelDebug, msg)
}
