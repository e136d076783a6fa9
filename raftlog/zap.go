package raftlog

import "go.uber.org/zap"

// NewZap wraps a *zap.Logger as a Logger implementation.
func NewZap(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar(), level: 0}
}

type zapLogger struct {
	s     *zap.SugaredLogger
	level int
}

func (z *zapLogger) V(level int) Verbose {
	if level > z.level {
		return discardVerbose{}
	}
	return zapVerbose{s: z.s}
}

func (z *zapLogger) Info(args ...interface{})                    { z.s.Info(args...) }
func (z *zapLogger) Infof(format string, args ...interface{})    { z.s.Infof(format, args...) }
func (z *zapLogger) Warning(args ...interface{})                 { z.s.Warn(args...) }
func (z *zapLogger) Warningf(format string, args ...interface{}) { z.s.Warnf(format, args...) }
func (z *zapLogger) Error(args ...interface{})                   { z.s.Error(args...) }
func (z *zapLogger) Errorf(format string, args ...interface{})   { z.s.Errorf(format, args...) }
func (z *zapLogger) Fatal(args ...interface{})                   { z.s.Fatal(args...) }
func (z *zapLogger) Fatalf(format string, args ...interface{})   { z.s.Fatalf(format, args...) }

type zapVerbose struct{ s *zap.SugaredLogger }

func (v zapVerbose) Infof(format string, args ...interface{}) { v.s.Infof(format, args...) }
func (v zapVerbose) Info(args ...interface{})                 { v.s.Info(args...) }

type discardVerbose struct{}

func (discardVerbose) Infof(format string, args ...interface{}) {}
func (discardVerbose) Info(args ...interface{})                 {}
