// Command print-perf runs a command and prints how long it took. Lines the
// command writes that match -lap or -split are reported as timer checkpoints,
// which makes it easy to see how long each phase of a build or a batch job
// takes without touching its code:
//
//	print-perf -lap '^=== ' make test
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/jmhodges/clock"

	"github.com/cfsamson/print-perf/cmd"
	blog "github.com/cfsamson/print-perf/log"
	"github.com/cfsamson/print-perf/perf"
)

type config struct {
	label   string
	color   string
	lap     string
	split   string
	verbose bool
}

// markers turns matching output lines into checkpoints on one Timer. Both
// output streams are scanned concurrently, so every Timer call holds mu.
type markers struct {
	mu    sync.Mutex
	timer *perf.Timer
	lap   *regexp.Regexp
	split *regexp.Regexp
}

// newMarkers compiles the patterns. The Timer is attached once the command
// is about to start.
func newMarkers(lap, split string) (*markers, error) {
	m := &markers{}
	var err error
	if lap != "" {
		m.lap, err = regexp.Compile(lap)
		if err != nil {
			return nil, fmt.Errorf("compiling -lap pattern: %w", err)
		}
	}
	if split != "" {
		m.split, err = regexp.Compile(split)
		if err != nil {
			return nil, fmt.Errorf("compiling -split pattern: %w", err)
		}
	}
	return m, nil
}

// observe reports line as a lap or a split. A line matching both patterns
// is a lap.
func (m *markers) observe(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.lap != nil && m.lap.MatchString(line):
		m.timer.Lap(line)
	case m.split != nil && m.split.MatchString(line):
		m.timer.Split(line)
	}
}

func (m *markers) end() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timer.End()
}

// forward copies r to w unchanged as soon as each chunk arrives, so
// prompts and progress output without a newline show up immediately. Every
// complete line is handed to m without its line ending; a final line with no
// newline is handed over at EOF.
func forward(r io.Reader, w io.Writer, m *markers) error {
	buf := make([]byte, 32*1024)
	var pending []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			pending = append(pending, buf[:n]...)
			start := 0
			for {
				i := bytes.IndexByte(pending[start:], '\n')
				if i < 0 {
					break
				}
				m.observe(strings.TrimRight(string(pending[start:start+i]), "\r"))
				start += i + 1
			}
			pending = append(pending[:0], pending[start:]...)
		}
		if err == io.EOF {
			if len(pending) > 0 {
				m.observe(strings.TrimRight(string(pending), "\r"))
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// run runs argv with its output forwarded to stdout and stderr, timing it
// on a Timer from r. It returns the command's exit status. An error means
// the command could not be run at all.
func run(ctx context.Context, c config, argv []string, r *perf.Reporter, stdout, stderr io.Writer, logger blog.Logger) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("no command given")
	}
	label := c.label
	if label == "" {
		label = filepath.Base(argv[0])
	}

	m, err := newMarkers(c.lap, c.split)
	if err != nil {
		return 0, err
	}

	child := exec.CommandContext(ctx, argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	outPipe, err := child.StdoutPipe()
	if err != nil {
		return 0, err
	}
	errPipe, err := child.StderrPipe()
	if err != nil {
		return 0, err
	}

	logger.Debug(fmt.Sprintf("running %q", argv))
	m.timer = r.Start(label, fmt.Sprintf("[exec %s]", argv[0]))
	if err := child.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", argv[0], err)
	}

	var wg sync.WaitGroup
	for _, s := range []struct {
		name string
		r    io.Reader
		w    io.Writer
	}{
		{"stdout", outPipe, stdout},
		{"stderr", errPipe, stderr},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := forward(s.r, s.w, m); err != nil {
				logger.Warning(fmt.Sprintf("forwarding %s: %s", s.name, err))
				_, _ = io.Copy(io.Discard, s.r)
			}
		}()
	}
	// All reads must finish before Wait closes the pipes.
	wg.Wait()
	err = child.Wait()
	m.end()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug(fmt.Sprintf("%s exited with status %d", argv[0], exitErr.ExitCode()))
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}
		// Killed by a signal.
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("waiting for %s: %w", argv[0], err)
	}
	return 0, nil
}

func main() {
	var c config
	flag.StringVar(&c.label, "label", "", "Timer label (default: the command's base name)")
	flag.StringVar(&c.color, "color", "auto", "Decorate timer lines: auto, always or never")
	flag.StringVar(&c.lap, "lap", "", "Report output lines matching this regexp as laps")
	flag.StringVar(&c.split, "split", "", "Report output lines matching this regexp as splits")
	flag.BoolVar(&c.verbose, "v", false, "Log debug messages")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] command [args...]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	// An invalid -color still yields StylePlain, which the logger reporting
	// the error uses.
	style, styleErr := perf.ParseStyle(c.color, os.Stderr)
	logger := cmd.NewLogger(c.verbose, style == perf.StyleDecorated)
	defer logger.AuditPanic()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cmd.FailOnError(styleErr, "Invalid -color")
	reporter := perf.NewReporter(clock.New(), os.Stderr, style)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code, err := run(ctx, c, flag.Args(), reporter, os.Stdout, os.Stderr, logger)
	stop()
	cmd.FailOnError(err, "Running command")
	os.Exit(code)
}
