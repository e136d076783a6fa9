package membership

import (
	"time"

	"github.com/metasrv/raft/raftlog"
)

const defaultDrainTimeout = 5 * time.Second

// config is the concrete Config exported callers get via NewConfig,
// following the same accessor-struct-plus-options shape as
// internal/raftengine.Config.
type config struct {
	drain    time.Duration
	reporter Reporter
	logger   raftlog.Logger
}

// Option configures a Config built by NewConfig.
type Option func(*config)

// WithDrainTimeout overrides the default 5s drain timeout.
func WithDrainTimeout(d time.Duration) Option { return func(c *config) { c.drain = d } }

// WithLogger overrides the default discard logger.
func WithLogger(l raftlog.Logger) Option { return func(c *config) { c.logger = l } }

// NewConfig builds a Config reporting liveness events to reporter — the
// driver's ReportUnreachable/ReportShutdown/ReportSnapshot methods, or a
// raftengine.ReporterProxy built before the driver exists yet.
func NewConfig(reporter Reporter, opts ...Option) Config {
	c := &config{
		drain:    defaultDrainTimeout,
		reporter: reporter,
		logger:   raftlog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) DrainTimeout() time.Duration { return c.drain }
func (c *config) Reporter() Reporter          { return c.reporter }
func (c *config) Logger() raftlog.Logger      { return c.logger }
