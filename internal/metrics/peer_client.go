package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	peerClientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "peer_client",
		Name:      "operations_total",
		Help:      "Count of HTTP calls to peer nodes.",
	}, []string{"operation", "status"})
	peerClientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "peer_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of HTTP calls to peer nodes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// PeerClient tracks metrics for calls to other nodes.
type PeerClient struct{}

// NewPeerClient constructs a metrics collector for peer calls.
func NewPeerClient() *PeerClient {
	return &PeerClient{}
}

// Observe records a single peer call outcome and duration.
func (m PeerClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	peerClientRequestsTotal.WithLabelValues(operation, status).Inc()
	peerClientRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
