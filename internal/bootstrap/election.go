package bootstrap

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/metasrv/raft/raftlog"
)

// defaultTimeout sits in the 5-10s band spec.md's design notes call for:
// long enough that a healthy peer's response is not raced out, short
// enough that a genuinely partitioned node does not hang at startup.
const defaultTimeout = 7 * time.Second

type outcome struct {
	peer Peer
	resp Response
	err  error
}

// Elect decides cluster leadership for one bootstrapping node, spec.md
// §4.E. It never blocks past cfg.Timeout (or defaultTimeout).
func Elect(ctx context.Context, cfg Config) (Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = raftlog.Discard()
	}

	if len(cfg.Peers) == 0 {
		logger.Infof("bootstrap: single-node cluster, %d is leader", cfg.LocalID)
		return Result{LeaderID: cfg.LocalID, LeaderAddr: cfg.LocalAddr, IsSelf: true}, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	quorum := len(cfg.Peers)/2 + 1
	results := make(chan outcome, len(cfg.Peers))

	g, gctx := errgroup.WithContext(qctx)
	for _, p := range cfg.Peers {
		p := p
		g.Go(func() error {
			resp, err := cfg.Discoverer.GetLeader(gctx, p)
			select {
			case results <- outcome{peer: p, resp: resp, err: err}:
			case <-qctx.Done():
			}
			// A single unreachable peer must not cancel the poll for the
			// rest — every error is carried in the outcome instead of
			// being returned here.
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	responded := 0
	for {
		select {
		case o, ok := <-results:
			if !ok {
				logger.Warningf("bootstrap: peer poll exhausted with %d/%d reachable and no leader found, becoming provisional leader", responded, len(cfg.Peers))
				return Result{LeaderID: cfg.LocalID, LeaderAddr: cfg.LocalAddr, IsSelf: true}, nil
			}
			if o.err != nil {
				logger.Warningf("bootstrap: peer %d (%s) unreachable: %v", o.peer.ID, o.peer.Address, o.err)
				continue
			}
			responded++
			if o.resp.Known {
				cancel()
				return Result{
					LeaderID:   o.resp.LeaderID,
					LeaderAddr: o.resp.LeaderAddr,
					IsSelf:     o.resp.LeaderID == cfg.LocalID,
				}, nil
			}
			if responded >= quorum {
				logger.Infof("bootstrap: quorum of %d peers reached, none knows a leader yet; starting as follower", responded)
				return Result{}, nil
			}
		case <-qctx.Done():
			logger.Warningf("bootstrap: peer poll timed out with %d/%d reachable and no quorum, becoming provisional leader", responded, len(cfg.Peers))
			return Result{LeaderID: cfg.LocalID, LeaderAddr: cfg.LocalAddr, IsSelf: true}, nil
		}
	}
}
