// Package intake is the single entry point for alerts, whether reported by an
// operator or raised by the local scanner.
package intake

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ErrInvalidAlert is returned for alerts with a non-finite confidence. Empty
// sender or type strings are pooled as given.
var ErrInvalidAlert = errors.New("invalid alert")

// Receipt tells the caller where the alert is expected to land and which
// automated actions it triggered.
type Receipt struct {
	Index   int
	Actions []string
}

type Intake struct {
	pool      AlertPool
	evaluator ContractEvaluator
	metrics   Metrics
	logger    *zap.Logger
}

func New(pool AlertPool, evaluator ContractEvaluator, metrics Metrics, logger *zap.Logger) (*Intake, error) {
	if pool == nil {
		return nil, errors.New("alert pool is required")
	}
	if evaluator == nil {
		return nil, errors.New("contract evaluator is required")
	}
	if metrics == nil {
		return nil, errors.New("intake metrics is required")
	}
	return &Intake{
		pool:      pool,
		evaluator: evaluator,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Ingest appends the alert to the pending pool, then runs it through the
// contract evaluator. Duplicates are accepted.
func (i *Intake) Ingest(ctx context.Context, sender, alertType string, confidence float64, source string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return Receipt{}, fmt.Errorf("%w: confidence must be a finite number", ErrInvalidAlert)
	}

	index := i.pool.AddAlert(sender, alertType, confidence)
	executions := i.evaluator.Evaluate(alertType, confidence, source)

	actions := make([]string, 0, len(executions))
	for _, exec := range executions {
		actions = append(actions, string(exec.Action))
	}
	i.metrics.ObserveIngest(len(actions))
	i.logger.Info("alert accepted",
		zap.String("sender", sender),
		zap.String("type", alertType),
		zap.Float64("confidence", confidence),
		zap.String("source", source),
		zap.Int("block", index),
		zap.Strings("actions", actions),
	)

	return Receipt{Index: index, Actions: actions}, nil
}
