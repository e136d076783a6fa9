package raftengine

import "github.com/metasrv/raft/raftlog"

// raftLoggerAdapter satisfies go.etcd.io/raft/v3's own Logger interface by
// forwarding to the raftlog.Logger every other package in this module logs
// through, so the consensus library's internal logging lands in the same
// sink as the driver's.
type raftLoggerAdapter struct {
	l raftlog.Logger
}

func (a raftLoggerAdapter) Debug(v ...interface{})                 { a.l.V(2).Info(v...) }
func (a raftLoggerAdapter) Debugf(format string, v ...interface{}) { a.l.V(2).Infof(format, v...) }
func (a raftLoggerAdapter) Error(v ...interface{})                 { a.l.Error(v...) }
func (a raftLoggerAdapter) Errorf(format string, v ...interface{}) { a.l.Errorf(format, v...) }
func (a raftLoggerAdapter) Info(v ...interface{})                  { a.l.Info(v...) }
func (a raftLoggerAdapter) Infof(format string, v ...interface{})  { a.l.Infof(format, v...) }
func (a raftLoggerAdapter) Warning(v ...interface{})               { a.l.Warning(v...) }
func (a raftLoggerAdapter) Warningf(format string, v ...interface{}) {
	a.l.Warningf(format, v...)
}
func (a raftLoggerAdapter) Fatal(v ...interface{})                 { a.l.Fatal(v...) }
func (a raftLoggerAdapter) Fatalf(format string, v ...interface{}) { a.l.Fatalf(format, v...) }
func (a raftLoggerAdapter) Panic(v ...interface{})                 { a.l.Fatal(v...) }
func (a raftLoggerAdapter) Panicf(format string, v ...interface{}) { a.l.Fatalf(format, v...) }
