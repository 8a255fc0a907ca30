// Package reputation gates block production behind a locally tracked score.
package reputation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"go.uber.org/zap"
)

const (
	DefaultInitialScore = 10
	DefaultThreshold    = 50
	DefaultReward       = 5
	BoostAmount         = 10
)

// Status is the result of a production attempt that did not fail.
type Status int

const (
	StatusMined Status = iota + 1
	StatusNothingToMine
)

func (s Status) String() string {
	switch s {
	case StatusMined:
		return "mined"
	case StatusNothingToMine:
		return "nothing_to_mine"
	default:
		return "unknown"
	}
}

// Outcome describes a production attempt. Block is set only for StatusMined.
type Outcome struct {
	Status Status
	Block  ledger.Block
	Score  int
}

// InsufficientReputationError is returned when the score is below the threshold.
type InsufficientReputationError struct {
	Score     int
	Threshold int
}

func (e *InsufficientReputationError) Error() string {
	return fmt.Sprintf("reputation too low (%d/%d)", e.Score, e.Threshold)
}

type Config struct {
	InitialScore int
	Threshold    int
	Reward       int
}

// DefaultConfig returns the standard gate parameters.
func DefaultConfig() Config {
	return Config{
		InitialScore: DefaultInitialScore,
		Threshold:    DefaultThreshold,
		Reward:       DefaultReward,
	}
}

// Producer seals the pending pool when the node's score allows it and is
// rewarded for every sealed block. The score never decreases.
type Producer struct {
	sealer  Sealer
	nodeID  string
	metrics Metrics
	logger  *zap.Logger

	mu        sync.Mutex
	score     int
	threshold int
	reward    int
}

func NewProducer(sealer Sealer, nodeID string, cfg Config, metrics Metrics, logger *zap.Logger) (*Producer, error) {
	if sealer == nil {
		return nil, errors.New("sealer is required")
	}
	if metrics == nil {
		return nil, errors.New("producer metrics is required")
	}
	if cfg.Reward < 0 {
		return nil, fmt.Errorf("reward must not be negative, got %d", cfg.Reward)
	}
	metrics.SetScore(cfg.InitialScore)
	return &Producer{
		sealer:    sealer,
		nodeID:    nodeID,
		metrics:   metrics,
		logger:    logger,
		score:     cfg.InitialScore,
		threshold: cfg.Threshold,
		reward:    cfg.Reward,
	}, nil
}

// TryMine checks the gate, seals the pool and applies the reward as one step.
func (p *Producer) TryMine() (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.score < p.threshold {
		p.metrics.ObserveMine("insufficient_reputation")
		return Outcome{}, &InsufficientReputationError{Score: p.score, Threshold: p.threshold}
	}

	block, ok := p.sealer.Seal(p.nodeID)
	if !ok {
		p.metrics.ObserveMine(StatusNothingToMine.String())
		return Outcome{Status: StatusNothingToMine, Score: p.score}, nil
	}

	p.score += p.reward
	p.metrics.ObserveMine(StatusMined.String())
	p.metrics.SetScore(p.score)
	p.logger.Info("block mined",
		zap.Int("index", block.Index),
		zap.Int("alerts", len(block.Alerts)),
		zap.String("hash", block.Hash),
		zap.Int("reputation", p.score),
	)
	return Outcome{Status: StatusMined, Block: block, Score: p.score}, nil
}

// Boost adds a fixed amount to the score. Intended for test deployments only.
func (p *Producer) Boost() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.score += BoostAmount
	p.metrics.SetScore(p.score)
	p.logger.Warn("reputation boosted", zap.Int("reputation", p.score))
	return p.score
}

func (p *Producer) Score() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score
}

func (p *Producer) Threshold() int {
	return p.threshold
}
