package log

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/jmhodges/clock"

	"github.com/cfsamson/print-perf/test"
)

func setup(level Level, colour bool) (Logger, *bytes.Buffer) {
	fc := clock.NewFake()
	fc.Set(time.Date(2015, 3, 4, 5, 6, 7, 0, time.UTC))
	buf := new(bytes.Buffer)
	return New(buf, level, colour, fc), buf
}

func TestEmit(t *testing.T) {
	log, buf := setup(LevelDebug, false)
	prog := path.Base(os.Args[0])

	log.Err("broken")
	log.Warning("careful")
	log.Info("hello")
	log.Debug("details")

	test.AssertDeepEquals(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), []string{
		"E050607 " + prog + " broken",
		"W050607 " + prog + " careful",
		"I050607 " + prog + " hello",
		"D050607 " + prog + " details",
	})
}

func TestLevelFilter(t *testing.T) {
	log, buf := setup(LevelWarning, false)
	log.Info("dropped")
	log.Debug("dropped")
	test.AssertEquals(t, buf.Len(), 0)
	log.Warning("kept")
	test.AssertContains(t, buf.String(), "kept")
}

func TestColour(t *testing.T) {
	log, buf := setup(LevelInfo, true)
	log.Err("red")
	test.Assert(t, strings.HasPrefix(buf.String(), "\033[31m\033[1mE"), "error line should be red: "+buf.String())
	test.Assert(t, strings.HasSuffix(buf.String(), "red\033[0m\n"), "error line should be reset")

	buf.Reset()
	log.Info("plain")
	test.AssertNotContains(t, buf.String(), "\033")
}

func TestLevelString(t *testing.T) {
	test.AssertEquals(t, LevelErr.String(), "ERR")
	test.AssertEquals(t, LevelDebug.String(), "DEBUG")
	test.AssertEquals(t, Level(42).String(), "Level(42)")
}

func TestAuditPanicRepanics(t *testing.T) {
	m := NewMock()
	defer m.Close()
	err := test.AssertPanics(t, func() {
		defer m.AuditPanic()
		panic("boom")
	}, "AuditPanic should re-raise")
	test.AssertContains(t, err.Error(), "boom")
	test.AssertEquals(t, len(m.GetAllMatching("Panic caused by err: boom")), 1)
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.Info("one")
	m.Warning("two")
	all := m.GetAll()
	test.AssertEquals(t, len(all), 2)
	test.AssertEquals(t, all[0].String(), "INFO: one")
	test.AssertEquals(t, all[1].Level, LevelWarning)
	test.AssertEquals(t, len(m.GetAllMatching("^WARNING: t")), 1)

	m.Clear()
	test.AssertEquals(t, len(m.GetAll()), 0)

	m.Close()
	test.Assert(t, m.GetAll() == nil, "GetAll after Close should return nil")
}
