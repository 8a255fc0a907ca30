package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolverRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolver",
		Name:      "runs_total",
		Help:      "Count of conflict resolution runs.",
	}, []string{"result", "status"})
	resolverRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "resolver",
		Name:      "run_duration_seconds",
		Help:      "Duration of conflict resolution runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	resolverPeerCandidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolver",
		Name:      "peer_candidates_total",
		Help:      "Count of peer chains by evaluation outcome.",
	}, []string{"outcome"})
)

// Resolver tracks conflict resolution outcomes.
type Resolver struct{}

// NewResolver creates a Resolver metrics collector.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ObserveResolve records one resolution run.
func (m Resolver) ObserveResolve(err error, replaced bool, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	result := "up_to_date"
	if replaced {
		result = "replaced"
	}
	resolverRunsTotal.WithLabelValues(result, status).Inc()
	resolverRunDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObservePeer records how a single peer's chain was judged.
func (m Resolver) ObservePeer(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	resolverPeerCandidatesTotal.WithLabelValues(outcome).Inc()
}
