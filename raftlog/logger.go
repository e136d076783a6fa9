// Package raftlog defines the pluggable logging surface used by the engine,
// bootstrap election, and membership pool. It never opens files itself: a
// failed log sink is the caller's problem to solve at construction time, not
// a reason to abort the driver loop.
package raftlog

// Logger is implemented by the concrete logging backends in this package
// (zap, logrus) and by anything else a caller wants to plug in. The shape
// mirrors glog's verbosity-gated logging: V(n) returns a Verbose value that
// is a no-op when level n is not enabled.
type Logger interface {
	V(level int) Verbose

	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Verbose gates a logging call behind a verbosity level.
type Verbose interface {
	Infof(format string, args ...interface{})
	Info(args ...interface{})
}
