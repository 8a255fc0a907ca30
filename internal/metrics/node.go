package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	producerMineTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "producer",
		Name:      "mine_attempts_total",
		Help:      "Count of block production attempts by outcome.",
	}, []string{"outcome"})
	producerReputation = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "producer",
		Name:      "reputation_score",
		Help:      "Current local reputation score.",
	})

	intakeAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "intake",
		Name:      "alerts_total",
		Help:      "Count of alerts accepted into the pending pool.",
	})
	intakeActionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "intake",
		Name:      "actions_total",
		Help:      "Count of contract actions triggered by accepted alerts.",
	})

	scannerScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "scans_total",
		Help:      "Count of traffic scans by verdict.",
	}, []string{"verdict", "status"})
	scannerScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "scan_duration_seconds",
		Help:      "Duration of traffic scans.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	contractExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "contracts",
		Name:      "executions_total",
		Help:      "Count of executed contract actions.",
	}, []string{"action"})

	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Count of periodic sync rounds.",
	}, []string{"status"})
	syncRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "run_duration_seconds",
		Help:      "Duration of periodic sync rounds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of HTTP requests by route and status code.",
	}, []string{"route", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

type Producer struct{}

func NewProducer() *Producer {
	return &Producer{}
}

func (m Producer) ObserveMine(outcome string) {
	producerMineTotal.WithLabelValues(outcome).Inc()
}

func (m Producer) SetScore(score int) {
	producerReputation.Set(float64(score))
}

type Intake struct{}

func NewIntake() *Intake {
	return &Intake{}
}

func (m Intake) ObserveIngest(actions int) {
	intakeAlertsTotal.Inc()
	intakeActionsTotal.Add(float64(actions))
}

type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (m Scanner) ObserveScan(verdict string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
		verdict = "none"
	}
	scannerScansTotal.WithLabelValues(verdict, status).Inc()
	scannerScanDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

type Contracts struct{}

func NewContracts() *Contracts {
	return &Contracts{}
}

func (m Contracts) ObserveExecution(action string) {
	contractExecutionsTotal.WithLabelValues(action).Inc()
}

type Sync struct{}

func NewSync() *Sync {
	return &Sync{}
}

func (m Sync) ObserveSync(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	syncRunsTotal.WithLabelValues(status).Inc()
	syncRunDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

type HTTP struct{}

func NewHTTP() *HTTP {
	return &HTTP{}
}

func (m HTTP) ObserveRequest(route string, code int, started time.Time) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}
