// Package service holds the node's background loops.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/sentinelmesh/internal/clock"
)

const syncJitter = 0.2

// SyncService periodically reconciles the ledger with the registered peers.
type SyncService struct {
	resolver Resolver
	metrics  SyncMetrics
	logger   *zap.Logger
	interval time.Duration
	sleep    func(context.Context, time.Duration) error
	jitter   func(time.Duration, float64) time.Duration
}

// NewSyncService builds the sync loop. A zero interval disables it.
func NewSyncService(resolver Resolver, metrics SyncMetrics, interval time.Duration, logger *zap.Logger) (*SyncService, error) {
	if resolver == nil {
		return nil, errors.New("sync resolver is required")
	}
	if metrics == nil {
		return nil, errors.New("sync metrics is required")
	}
	return &SyncService{
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		sleep:    clock.SleepWithContext,
		jitter:   clock.Jitter,
	}, nil
}

// Run resolves every interval until the context is canceled. Resolution
// failures are logged and never stop the loop.
func (s *SyncService) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("periodic sync disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		if err := s.sleep(ctx, s.jitter(s.interval, syncJitter)); err != nil {
			return err
		}
		s.run(ctx)
	}
}

func (s *SyncService) run(ctx context.Context) {
	started := time.Now()
	res, err := s.resolver.Resolve(ctx)
	s.metrics.ObserveSync(err, started)
	if err != nil {
		s.logger.Warn("periodic sync failed", zap.Error(err))
		return
	}
	if res.Replaced {
		s.logger.Info("periodic sync adopted peer chain", zap.Int("length", res.Length))
		return
	}
	s.logger.Debug("periodic sync found nothing to adopt", zap.Int("length", res.Length))
}
