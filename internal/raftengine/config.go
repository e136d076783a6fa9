package raftengine

import (
	"time"

	"go.etcd.io/raft/v3"

	"github.com/metasrv/raft/internal/bootstrap"
	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/internal/storage"
	"github.com/metasrv/raft/raftlog"
)

const (
	defaultTickInterval = 100 * time.Millisecond
	defaultSnapInterval = uint64(1000)
	defaultDrainTimeout = 5 * time.Second
)

// config is the concrete Config every exported constructor assembles
// through functional options, in the same shape as
// internal/membership's config.
type config struct {
	id           uint64
	addr         string
	tick         time.Duration
	snapInterval uint64
	drain        time.Duration
	fsm          StateMachine
	store        storage.Storage
	pool         membership.Pool
	sink         OutboundSink
	logger       raftlog.Logger
	statec       chan raft.StateType
	peers        []bootstrap.Peer
	discoverer   bootstrap.Discoverer
	electTimeout time.Duration
}

// Option configures a Config built by NewConfig.
type Option func(*config)

// WithTickInterval overrides the default 100ms tick period (spec.md §4.D).
func WithTickInterval(d time.Duration) Option { return func(c *config) { c.tick = d } }

// WithSnapInterval sets how many applied entries accumulate between
// automatic snapshots.
func WithSnapInterval(n uint64) Option { return func(c *config) { c.snapInterval = n } }

// WithDrainTimeout bounds how long Shutdown waits for in-flight work.
func WithDrainTimeout(d time.Duration) Option { return func(c *config) { c.drain = d } }

// WithLogger overrides the default discard logger.
func WithLogger(l raftlog.Logger) Option { return func(c *config) { c.logger = l } }

// WithStateChangeCh lets the caller observe raft.StateType transitions.
func WithStateChangeCh(ch chan raft.StateType) Option { return func(c *config) { c.statec = ch } }

// WithPeers supplies the bootstrap candidate list polled at startup.
func WithPeers(peers ...bootstrap.Peer) Option { return func(c *config) { c.peers = peers } }

// WithDiscoverer overrides the default gRPC bootstrap discoverer, mainly
// for tests.
func WithDiscoverer(d bootstrap.Discoverer) Option { return func(c *config) { c.discoverer = d } }

// WithElectionTimeout bounds the bootstrap peer poll (spec.md §4.E).
func WithElectionTimeout(d time.Duration) Option { return func(c *config) { c.electTimeout = d } }

// NewConfig assembles a Config for a node identified by id at addr,
// replicating through store and pool and applying to fsm.
func NewConfig(
	id uint64,
	addr string,
	fsm StateMachine,
	store storage.Storage,
	pool membership.Pool,
	sink OutboundSink,
	opts ...Option,
) Config {
	c := &config{
		id:           id,
		addr:         addr,
		fsm:          fsm,
		store:        store,
		pool:         pool,
		sink:         sink,
		tick:         defaultTickInterval,
		snapInterval: defaultSnapInterval,
		drain:        defaultDrainTimeout,
		logger:       raftlog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) LocalID() uint64                     { return c.id }
func (c *config) LocalAddress() string                { return c.addr }
func (c *config) TickInterval() time.Duration         { return c.tick }
func (c *config) SnapInterval() uint64                { return c.snapInterval }
func (c *config) DrainTimeout() time.Duration         { return c.drain }
func (c *config) StateMachine() StateMachine          { return c.fsm }
func (c *config) Storage() storage.Storage            { return c.store }
func (c *config) Pool() membership.Pool               { return c.pool }
func (c *config) Sink() OutboundSink                  { return c.sink }
func (c *config) Logger() raftlog.Logger              { return c.logger }
func (c *config) StateChangeCh() chan raft.StateType  { return c.statec }

func (c *config) Bootstrap() bootstrap.Config {
	discoverer := c.discoverer
	if discoverer == nil {
		discoverer = bootstrap.GRPCDiscoverer{DialTimeout: c.tick * 10}
	}
	timeout := c.electTimeout
	if timeout == 0 {
		timeout = 7 * time.Second
	}
	return bootstrap.Config{
		LocalID:    c.id,
		LocalAddr:  c.addr,
		Peers:      c.peers,
		Timeout:    timeout,
		Discoverer: discoverer,
		Logger:     c.logger,
	}
}
