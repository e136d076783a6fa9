package raftlog

// Discard returns a Logger that drops everything. Useful as a safe fallback
// when constructing a real logger's sink (a log file, a syslog socket) fails
// — the driver loop must never abort just because logging setup did.
func Discard() Logger { return discardLogger{} }

type discardLogger struct{}

func (discardLogger) V(int) Verbose                          { return discardVerbose{} }
func (discardLogger) Info(args ...interface{})                {}
func (discardLogger) Infof(string, ...interface{})            {}
func (discardLogger) Warning(args ...interface{})              {}
func (discardLogger) Warningf(string, ...interface{})          {}
func (discardLogger) Error(args ...interface{})                {}
func (discardLogger) Errorf(string, ...interface{})            {}
func (discardLogger) Fatal(args ...interface{})                {}
func (discardLogger) Fatalf(string, ...interface{})            {}
