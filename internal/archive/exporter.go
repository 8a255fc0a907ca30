// Package archive copies sealed and adopted blocks into external storage.
// The archive is write-only: the node never restores from it.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"github.com/goodnatureofminers/sentinelmesh/pkg/batcher"
)

const (
	defaultFlushSize     = 100
	defaultFlushInterval = 5 * time.Second

	kindSealed   = "block_sealed"
	kindReplaced = "chain_replaced"
)

type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	// FlushRPS caps flushes per second; zero means unlimited.
	FlushRPS int
}

// Exporter is a ledger.Listener that queues blocks and writes them in
// batches. A full queue drops blocks rather than stalling the ledger.
type Exporter struct {
	repo    Repository
	metrics Metrics
	logger  *zap.Logger
	nodeID  string
	batcher *batcher.Batcher[ledger.Block]
}

var _ ledger.Listener = (*Exporter)(nil)

func NewExporter(repo Repository, nodeID string, cfg Config, metrics Metrics, logger *zap.Logger) (*Exporter, error) {
	if repo == nil {
		return nil, errors.New("archive repository is required")
	}
	if metrics == nil {
		return nil, errors.New("archive metrics is required")
	}
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = defaultFlushSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}

	e := &Exporter{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		nodeID:  nodeID,
	}
	e.batcher = batcher.New[ledger.Block](logger.Named("batcher"), e.flush, cfg.FlushSize, cfg.FlushInterval, cfg.FlushRPS)
	return e, nil
}

func (e *Exporter) Start(ctx context.Context) {
	e.batcher.Start(ctx)
}

// Stop flushes queued blocks and waits for the writer to finish.
func (e *Exporter) Stop() {
	e.batcher.Stop()
}

func (e *Exporter) BlockSealed(block ledger.Block) {
	e.enqueue(kindSealed, block)
}

// ChainReplaced archives the whole adopted chain; rows already present are
// collapsed by the storage engine.
func (e *Exporter) ChainReplaced(chain []ledger.Block) {
	e.Export(chain)
}

// Attach subscribes to source and then queues the chain it already holds.
// Subscribing first means a block sealed in between is queued at least once.
func (e *Exporter) Attach(source Source) {
	source.AddListener(e)
	e.Export(source.Chain())
}

// Export queues blocks that were not produced through the listener, such as
// the chain held at startup.
func (e *Exporter) Export(blocks []ledger.Block) {
	for _, block := range blocks {
		e.enqueue(kindReplaced, block)
	}
}

func (e *Exporter) enqueue(kind string, block ledger.Block) {
	if e.batcher.TryAdd(block) {
		return
	}
	e.metrics.ObserveDropped(kind)
	e.logger.Warn("archive queue full, block dropped",
		zap.String("kind", kind),
		zap.Int("index", block.Index),
		zap.String("hash", block.Hash))
}

func (e *Exporter) flush(ctx context.Context, blocks []ledger.Block) (err error) {
	defer func() {
		e.metrics.ObserveFlush(err, len(blocks))
	}()

	if err = e.repo.InsertBlocks(ctx, e.nodeID, blocks); err != nil {
		return fmt.Errorf("archive blocks: %w", err)
	}
	if err = e.repo.InsertAlerts(ctx, e.nodeID, blocks); err != nil {
		return fmt.Errorf("archive alerts: %w", err)
	}
	return nil
}
