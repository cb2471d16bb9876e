// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cslog is the hierarchical, leveled, subsystem-filtered logger
// this engine's core reports through instead of writing to stdout or a
// file directly. It wraps logrus the way the rest of this module wraps
// pkg/errors: a thin, opinionated layer over a library already in the
// retrieval pack, not a reimplementation of structured logging.
package cslog

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

// Level is this package's own level enum, mapped onto logrus's levels so
// callers never need to import logrus themselves.
type Level int

// Levels, from most to least verbose.
const (
	Trace Level = iota
	Debug
	Info
	Warning
	Error
	Fatal
)

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case Trace:
		return logrus.TraceLevel
	case Debug:
		return logrus.DebugLevel
	case Info:
		return logrus.InfoLevel
	case Warning:
		return logrus.WarnLevel
	case Error:
		return logrus.ErrorLevel
	case Fatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// A Logger is bound to one subsystem name, carried as a structured field
// on every record it emits.
type Logger struct {
	entry     *logrus.Entry
	subsystem string
}

// New builds a root Logger for subsystem at the given default level.
// Fatal never calls os.Exit: the core is a library and must never
// terminate its host process on its own behalf.
func New(subsystem string, level Level) *Logger {
	base := logrus.New()
	base.SetLevel(level.logrusLevel())
	base.ExitFunc = func(int) {}
	return &Logger{entry: base.WithField("subsystem", subsystem), subsystem: subsystem}
}

// Subsystem returns the logger's subsystem name.
func (l *Logger) Subsystem() string { return l.subsystem }

// Named derives a child logger for a different subsystem, sharing the
// same underlying logrus.Logger (and therefore the same level, output,
// and hooks) but tagging its own records distinctly.
func (l *Logger) Named(subsystem string) *Logger {
	return &Logger{entry: l.entry.Logger.WithField("subsystem", subsystem), subsystem: subsystem}
}

// With derives a child logger carrying additional structured fields.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fields), subsystem: l.subsystem}
}

func (l *Logger) Tracef(format string, args ...interface{})   { l.entry.Tracef(format, args...) }
func (l *Logger) Debugf(format string, args ...interface{})   { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})    { l.entry.Infof(format, args...) }
func (l *Logger) Warningf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})   { l.entry.Errorf(format, args...) }
func (l *Logger) Fatalf(format string, args ...interface{})   { l.entry.Fatalf(format, args...) }

// A Loggable can have a Logger attached to it. Project and Circuit
// implement it; the ~40-variant Element family does not, since giving
// every gate and flip-flop its own logger field would bloat the whole
// catalogue for a feature only useful at circuit granularity and above
// — celib.Memory is the one Element that does, because an out-of-range
// access is specifically a "log it, don't fault" case per its own
// resolve protocol.
type Loggable interface {
	SetLogger(*Logger)
	Logger() *Logger
}

// Attach binds l to target. If target is a Loggable whose children
// inherit loggers (Project over its Circuits), attaching also propagates
// l to any child that doesn't already have its own.
func Attach(target Loggable, l *Logger) {
	target.SetLogger(l)
}

// SubsystemFilter is a logrus Hook that drops records whose "subsystem"
// field doesn't match the given regular expression, implementing this
// package's subsystem filtering without touching the level threshold.
type SubsystemFilter struct {
	re *regexp.Regexp
}

// NewSubsystemFilter compiles pattern into a SubsystemFilter hook.
func NewSubsystemFilter(pattern string) (*SubsystemFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &SubsystemFilter{re: re}, nil
}

// Levels implements logrus.Hook: the filter applies to every level, since
// it's filtering by subsystem, not by severity.
func (f *SubsystemFilter) Levels() []logrus.Level { return logrus.AllLevels }

// Fire implements logrus.Hook: it clears the entry's message when the
// subsystem doesn't match, the cheapest way to suppress a record without
// logrus's hook API offering outright cancellation.
func (f *SubsystemFilter) Fire(e *logrus.Entry) error {
	subsystem, _ := e.Data["subsystem"].(string)
	if !f.re.MatchString(subsystem) {
		e.Message = ""
		e.Data = logrus.Fields{}
	}
	return nil
}

// Attach registers the filter hook on l's underlying logrus.Logger.
func (f *SubsystemFilter) Attach(l *Logger) {
	l.entry.Logger.AddHook(f)
}
