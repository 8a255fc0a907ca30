// Package scan runs the anomaly detector over simulated traffic samples and
// raises alerts for anomalous ones.
package scan

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/sentinelmesh/internal/detector"
)

const AlertType = "AI_ANOMALY_DETECTED"

const (
	verdictAnomaly = "anomaly"
	verdictNormal  = "normal"
)

// Result is the outcome of a single scan. Index, Source and Actions are only
// set for anomalies.
type Result struct {
	Anomaly bool
	Loss    float64
	Row     int
	Index   int
	Source  string
	Actions []string
}

// Scanner picks a sample, scales it, scores it and forwards anomalies to the
// alert intake. A scanner missing any of its model parts is not ready and
// every scan fails with detector.ErrModelUnavailable.
type Scanner struct {
	predictor   Predictor
	transformer Transformer
	samples     SampleSource
	intake      AlertIntake
	metrics     Metrics
	logger      *zap.Logger
	nodeID      string
	pick        func(n int) int
}

func New(
	predictor Predictor,
	transformer Transformer,
	samples SampleSource,
	intake AlertIntake,
	nodeID string,
	metrics Metrics,
	logger *zap.Logger,
) (*Scanner, error) {
	if intake == nil {
		return nil, errors.New("scan: intake is required")
	}
	if metrics == nil {
		return nil, errors.New("scan: metrics is required")
	}
	if nodeID == "" {
		return nil, errors.New("scan: node id is required")
	}
	return &Scanner{
		predictor:   predictor,
		transformer: transformer,
		samples:     samples,
		intake:      intake,
		metrics:     metrics,
		logger:      logger,
		nodeID:      nodeID,
		pick:        rand.IntN,
	}, nil
}

// Ready reports whether the model, scaler and samples are all loaded.
func (s *Scanner) Ready() bool {
	return s.predictor != nil && s.transformer != nil && s.samples != nil && s.samples.Len() > 0
}

func (s *Scanner) Scan(ctx context.Context) (res Result, err error) {
	started := time.Now()
	defer func() {
		verdict := verdictNormal
		if res.Anomaly {
			verdict = verdictAnomaly
		}
		s.metrics.ObserveScan(verdict, err, started)
	}()

	if !s.Ready() {
		return Result{}, detector.ErrModelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	row := s.pick(s.samples.Len())
	raw, err := s.samples.Row(row)
	if err != nil {
		return Result{}, fmt.Errorf("read sample %d: %w", row, err)
	}
	scaled, err := s.transformer.Transform(raw)
	if err != nil {
		return Result{}, fmt.Errorf("scale sample %d: %w", row, err)
	}
	anomaly, loss, err := s.predictor.Predict(scaled)
	if err != nil {
		return Result{}, fmt.Errorf("predict sample %d: %w", row, err)
	}

	res = Result{Anomaly: anomaly, Loss: loss, Row: row}
	if !anomaly {
		return res, nil
	}

	res.Source = SimulatedSource(row)
	receipt, err := s.intake.Ingest(ctx, s.nodeID, AlertType, loss, res.Source)
	if err != nil {
		return Result{}, fmt.Errorf("record anomaly: %w", err)
	}
	res.Index = receipt.Index
	res.Actions = receipt.Actions

	s.logger.Info("anomaly detected",
		zap.Int("row", row),
		zap.Float64("loss", loss),
		zap.String("source", res.Source),
		zap.Strings("actions", res.Actions))
	return res, nil
}

// SimulatedSource is the origin address attributed to a sample row.
func SimulatedSource(row int) string {
	return fmt.Sprintf("192.168.1.%d", row%255)
}
