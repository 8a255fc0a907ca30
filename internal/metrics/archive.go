package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archiveRepositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "archive_repository",
		Name:      "operations_total",
		Help:      "Count of archive repository operations.",
	}, []string{"operation", "node", "status"})
	archiveRepositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "archive_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of archive repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "node", "status"})

	archiveExporterDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "archive_exporter",
		Name:      "dropped_total",
		Help:      "Count of ledger events dropped because the export buffer was full.",
	}, []string{"kind"})
	archiveExporterFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "archive_exporter",
		Name:      "flush_total",
		Help:      "Count of export batches.",
	}, []string{"status"})
	archiveExporterFlushSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "archive_exporter",
		Name:      "flush_size",
		Help:      "Number of blocks per export batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1..512
	})
)

// ArchiveRepository tracks metrics for archive storage operations.
type ArchiveRepository struct{}

// NewArchiveRepository creates an ArchiveRepository metrics collector.
func NewArchiveRepository() *ArchiveRepository {
	return &ArchiveRepository{}
}

// Observe records duration and status of a repository operation.
func (m ArchiveRepository) Observe(operation, nodeID string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if nodeID == "" {
		nodeID = "unknown"
	}

	archiveRepositoryOperationsTotal.WithLabelValues(operation, nodeID, status).Inc()
	archiveRepositoryOperationDuration.WithLabelValues(operation, nodeID, status).Observe(time.Since(started).Seconds())
}

// ArchiveExporter tracks the ledger-to-archive queue.
type ArchiveExporter struct{}

// NewArchiveExporter creates an ArchiveExporter metrics collector.
func NewArchiveExporter() *ArchiveExporter {
	return &ArchiveExporter{}
}

func (m ArchiveExporter) ObserveDropped(kind string) {
	archiveExporterDroppedTotal.WithLabelValues(kind).Inc()
}

func (m ArchiveExporter) ObserveFlush(err error, blocks int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	archiveExporterFlushTotal.WithLabelValues(status).Inc()
	archiveExporterFlushSize.Observe(float64(blocks))
}
