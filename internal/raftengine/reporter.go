package raftengine

import "go.etcd.io/raft/v3"

// ReporterProxy breaks the construction cycle between membership.Pool
// (which needs a membership.Reporter at construction) and Engine (which
// needs that same Pool already built): build a ReporterProxy first, hand
// it to the Pool's Config, build the Pool, build the Engine, then Bind the
// proxy to it. Every call before Bind is a silent no-op — there is nothing
// to report to yet because nothing has failed yet either.
type ReporterProxy struct {
	eng Engine
}

// NewReporterProxy returns an unbound proxy.
func NewReporterProxy() *ReporterProxy { return &ReporterProxy{} }

// Bind attaches eng as the proxy's forwarding target.
func (p *ReporterProxy) Bind(eng Engine) { p.eng = eng }

func (p *ReporterProxy) ReportUnreachable(id uint64) {
	if p.eng != nil {
		p.eng.ReportUnreachable(id)
	}
}

func (p *ReporterProxy) ReportShutdown(id uint64) {
	if p.eng != nil {
		p.eng.ReportShutdown(id)
	}
}

func (p *ReporterProxy) ReportSnapshot(id uint64, status raft.SnapshotStatus) {
	if p.eng != nil {
		p.eng.ReportSnapshot(id, status)
	}
}
