package raftengine

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proposalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "metasrv",
		Subsystem: "raft",
		Name:      "proposals_total",
		Help:      "Replication proposals by outcome.",
	}, []string{"result"})

	appliedIndexGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "metasrv",
		Subsystem: "raft",
		Name:      "applied_index",
		Help:      "Highest log index applied to the state machine.",
	}, []string{"member"})

	snapshotDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "metasrv",
		Subsystem: "raft",
		Name:      "snapshot_seconds",
		Help:      "Time spent writing and persisting a snapshot.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})
)

func (eng *engine) recordApplied(index uint64) {
	appliedIndexGauge.WithLabelValues(strconv.FormatUint(eng.localID, 10)).Set(float64(index))
}

func snapshotResultLabel(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
