package raftlog

import "github.com/sirupsen/logrus"

// NewLogrus wraps a *logrus.Logger as a Logger implementation, an
// alternate raftlog backend for callers that already standardized on
// logrus elsewhere. Nothing in this module uses it by default.
func NewLogrus(l *logrus.Logger, level int) Logger {
	return &logrusLogger{e: logrus.NewEntry(l), level: level}
}

type logrusLogger struct {
	e     *logrus.Entry
	level int
}

func (l *logrusLogger) V(level int) Verbose {
	if level > l.level {
		return discardVerbose{}
	}
	return logrusVerbose{e: l.e}
}

func (l *logrusLogger) Info(args ...interface{})                    { l.e.Info(args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})    { l.e.Infof(format, args...) }
func (l *logrusLogger) Warning(args ...interface{})                 { l.e.Warning(args...) }
func (l *logrusLogger) Warningf(format string, args ...interface{}) { l.e.Warningf(format, args...) }
func (l *logrusLogger) Error(args ...interface{})                   { l.e.Error(args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{})   { l.e.Errorf(format, args...) }
func (l *logrusLogger) Fatal(args ...interface{})                   { l.e.Fatal(args...) }
func (l *logrusLogger) Fatalf(format string, args ...interface{})   { l.e.Fatalf(format, args...) }

type logrusVerbose struct{ e *logrus.Entry }

func (v logrusVerbose) Infof(format string, args ...interface{}) { v.e.Infof(format, args...) }
func (v logrusVerbose) Info(args ...interface{})                 { v.e.Info(args...) }
