// Package resolver reconciles the local ledger with peers by adopting the
// longest valid chain.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"github.com/goodnatureofminers/sentinelmesh/pkg/workerpool"
)

const defaultWorkerCount = 16

// Peer outcomes reported to metrics.
const (
	OutcomeAdopted     = "adopted"
	OutcomeOutranked   = "outranked"
	OutcomeShorter     = "shorter"
	OutcomeInvalid     = "invalid"
	OutcomeUnreachable = "unreachable"
)

// Result describes one resolution run. Length is the local chain length
// after the run.
type Result struct {
	Replaced bool
	Length   int
}

type Resolver struct {
	chain       Chain
	fetcher     ChainFetcher
	metrics     Metrics
	logger      *zap.Logger
	limiter     ratelimit.Limiter
	workerCount int
}

type Option func(*Resolver)

// WithRateLimit caps outbound chain fetches per second. Zero or less means
// unlimited.
func WithRateLimit(rps int) Option {
	return func(r *Resolver) {
		if rps > 0 {
			r.limiter = ratelimit.New(rps)
		}
	}
}

func WithWorkerCount(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workerCount = n
		}
	}
}

func New(chain Chain, fetcher ChainFetcher, metrics Metrics, logger *zap.Logger, opts ...Option) (*Resolver, error) {
	if chain == nil {
		return nil, errors.New("resolver: chain is required")
	}
	if fetcher == nil {
		return nil, errors.New("resolver: fetcher is required")
	}
	if metrics == nil {
		return nil, errors.New("resolver: metrics is required")
	}
	r := &Resolver{
		chain:       chain,
		fetcher:     fetcher,
		metrics:     metrics,
		logger:      logger,
		limiter:     ratelimit.NewUnlimited(),
		workerCount: defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type fetched struct {
	endpoint string
	chain    []ledger.Block
	length   int
	err      error
}

// Resolve fetches every peer's chain and adopts the longest valid one that
// is strictly longer than the local chain. Equal-length candidates are
// ordered by the smallest terminal block hash. Unreachable or invalid peers
// are skipped; only context cancellation is returned as an error.
func (r *Resolver) Resolve(ctx context.Context, peers []string) (res Result, err error) {
	started := time.Now()
	defer func() {
		r.metrics.ObserveResolve(err, res.Replaced, started)
	}()

	endpoints := append([]string(nil), peers...)
	sort.Strings(endpoints)

	results, err := workerpool.Collect(ctx, r.workerCount, endpoints, func(ctx context.Context, endpoint string) fetched {
		r.limiter.Take()
		chain, length, err := r.fetcher.FetchChain(ctx, endpoint)
		return fetched{endpoint: endpoint, chain: chain, length: length, err: err}
	})
	if err != nil {
		return Result{Length: r.chain.Len()}, fmt.Errorf("fetch peer chains: %w", err)
	}

	localLen := r.chain.Len()
	genesis := r.chain.Genesis()

	maxLen := localLen
	var (
		best         []ledger.Block
		bestEndpoint string
	)
	outcomes := make(map[string]string, len(results))

	for _, f := range results {
		if f.err != nil {
			r.logger.Warn("peer unreachable", zap.String("peer", f.endpoint), zap.Error(f.err))
			outcomes[f.endpoint] = OutcomeUnreachable
			continue
		}
		if f.length != len(f.chain) {
			r.logger.Warn("peer reported length does not match chain",
				zap.String("peer", f.endpoint),
				zap.Int("reported", f.length),
				zap.Int("received", len(f.chain)))
			outcomes[f.endpoint] = OutcomeInvalid
			continue
		}

		switch {
		case f.length > maxLen:
		case f.length == maxLen && best != nil && terminalHash(f.chain) < terminalHash(best):
		default:
			outcomes[f.endpoint] = OutcomeShorter
			continue
		}

		if err := r.verify(f.chain, genesis); err != nil {
			r.logger.Warn("peer chain rejected", zap.String("peer", f.endpoint), zap.Error(err))
			outcomes[f.endpoint] = OutcomeInvalid
			continue
		}
		if bestEndpoint != "" {
			outcomes[bestEndpoint] = OutcomeOutranked
		}
		maxLen, best, bestEndpoint = f.length, f.chain, f.endpoint
		outcomes[f.endpoint] = OutcomeAdopted
	}

	if best != nil && !r.chain.ReplaceIfLonger(best) {
		// Local chain grew past the candidate while peers were queried.
		outcomes[bestEndpoint] = OutcomeShorter
		best = nil
	}
	for _, endpoint := range endpoints {
		r.metrics.ObservePeer(outcomes[endpoint])
	}

	if best == nil {
		return Result{Length: r.chain.Len()}, nil
	}
	r.logger.Info("adopted peer chain",
		zap.String("peer", bestEndpoint),
		zap.Int("previous_length", localLen),
		zap.Int("new_length", len(best)))
	return Result{Replaced: true, Length: len(best)}, nil
}

func (r *Resolver) verify(chain []ledger.Block, genesis ledger.Block) error {
	if len(chain) == 0 {
		return fmt.Errorf("%w: empty chain", ledger.ErrInvalidChain)
	}
	if chain[0].Hash != genesis.Hash || chain[0].PreviousHash != genesis.PreviousHash {
		return fmt.Errorf("%w: genesis %q differs from local %q", ledger.ErrInvalidChain, chain[0].Hash, genesis.Hash)
	}
	// ledger.Verify only checks links from block 1 on; the genesis body is
	// bound here by recomputing its digest.
	if ledger.Hash(chain[0]) != genesis.Hash {
		return fmt.Errorf("%w: genesis content does not match its hash", ledger.ErrInvalidChain)
	}
	return ledger.Verify(chain)
}

func terminalHash(chain []ledger.Block) string {
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1].Hash
}
