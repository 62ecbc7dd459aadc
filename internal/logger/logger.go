// Package logger wraps github.com/cenkalti/log with the one handler every
// swarmcore component logs through: a component calls New with its own
// name (piecestorage is the one that does so) so a log line can be traced
// back to the subsystem that emitted it.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cenkalti/log"
)

var handler log.Handler

func init() {
	SetHandler(log.NewFileHandler(os.Stderr))
	SetLevel(log.INFO)
}

// SetHandler replaces the process-wide handler every component logger
// writes through.
func SetHandler(h log.Handler) {
	handler = h
	handler.SetFormatter(logFormatter{})
}

// SetLevel sets the minimum severity the handler forwards.
func SetLevel(l log.Level) {
	handler.SetLevel(l)
}

// levelNames maps the names accepted in Config.LogLevel to cenkalti/log's
// levels, lowest severity first.
var levelNames = map[string]log.Level{
	"debug":    log.DEBUG,
	"info":     log.INFO,
	"notice":   log.NOTICE,
	"warning":  log.WARNING,
	"error":    log.ERROR,
	"critical": log.CRITICAL,
}

// SetLevelByName sets the handler level from one of the names in
// levelNames. An empty or unrecognized name is a no-op, leaving whatever
// level is already in effect.
func SetLevelByName(name string) {
	l, ok := levelNames[name]
	if !ok {
		return
	}
	SetLevel(l)
}

// Logger is the interface piecestorage logs through. A component gets one
// by calling New with its own name.
type Logger log.Logger

// New returns a Logger named name, prefixed to every message it emits.
// It always forwards to the package handler set by SetHandler, so
// changing the handler after construction still takes effect.
func New(name string) Logger {
	l := log.NewLogger(name)
	l.SetLevel(log.DEBUG) // the handler, not the logger, does the filtering
	l.SetHandler(handler)
	return l
}

type logFormatter struct{}

// Format renders a line like "2014-02-28 18:15:57 INFO     [piecestorage] piecestorage.go:247 download finished".
func (f logFormatter) Format(rec *log.Record) string {
	return fmt.Sprintf("%s %-8s [%s] %-8s %s",
		fmt.Sprint(rec.Time)[:19],
		rec.Level,
		rec.LoggerName,
		filepath.Base(rec.Filename)+":"+strconv.Itoa(rec.Line),
		rec.Message)
}
