// Package node assembles the components that make up one mesh node and
// exposes the aggregate views the transports need.
package node

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/sentinelmesh/internal/api"
	"github.com/goodnatureofminers/sentinelmesh/internal/contracts"
	"github.com/goodnatureofminers/sentinelmesh/internal/detector"
	"github.com/goodnatureofminers/sentinelmesh/internal/intake"
	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"github.com/goodnatureofminers/sentinelmesh/internal/metrics"
	"github.com/goodnatureofminers/sentinelmesh/internal/peer"
	"github.com/goodnatureofminers/sentinelmesh/internal/reputation"
	"github.com/goodnatureofminers/sentinelmesh/internal/resolver"
	"github.com/goodnatureofminers/sentinelmesh/internal/scan"
)

// Config selects how a node is assembled. Empty artifact paths leave the
// scanner unavailable; the ledger works regardless.
type Config struct {
	ID           string
	Reputation   reputation.Config
	Peers        []string
	PeerTimeout  time.Duration
	PeerFetchRPS int
	DevBoost     bool

	ModelPath     string
	ThresholdPath string
	ScalerPath    string
	SamplesPath   string
	ContractsFile string

	LedgerOptions []ledger.Option
}

// Node is the context object handed to the transports.
type Node struct {
	ID        string
	DevBoost  bool
	Ledger    *ledger.Ledger
	Producer  *reputation.Producer
	Peers     *peer.Registry
	Client    *peer.Client
	Resolver  *resolver.Resolver
	Intake    *intake.Intake
	Scanner   *scan.Scanner
	Contracts *contracts.Engine
}

func New(cfg Config, logger *zap.Logger) (*Node, error) {
	if cfg.ID == "" {
		return nil, errors.New("node id is required")
	}
	logger = logger.With(zap.String("node", cfg.ID))

	l := ledger.New(append([]ledger.Option{ledger.WithListener(metrics.NewLedger())}, cfg.LedgerOptions...)...)

	peers := peer.NewRegistry()
	if len(cfg.Peers) > 0 {
		if _, err := peers.Add(cfg.Peers...); err != nil {
			return nil, fmt.Errorf("startup peers: %w", err)
		}
	}

	producer, err := reputation.NewProducer(l, cfg.ID, cfg.Reputation, metrics.NewProducer(), logger.Named("producer"))
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	catalog := contracts.DefaultCatalog()
	if cfg.ContractsFile != "" {
		if catalog, err = contracts.LoadCatalog(cfg.ContractsFile); err != nil {
			return nil, err
		}
	}
	engine, err := contracts.NewEngine(catalog, metrics.NewContracts(), logger.Named("contracts"))
	if err != nil {
		return nil, err
	}

	in, err := intake.New(l, engine, metrics.NewIntake(), logger.Named("intake"))
	if err != nil {
		return nil, fmt.Errorf("create intake: %w", err)
	}

	client := peer.NewClient(cfg.PeerTimeout, metrics.NewPeerClient())
	res, err := resolver.New(l, client, metrics.NewResolver(), logger.Named("resolver"), resolver.WithRateLimit(cfg.PeerFetchRPS))
	if err != nil {
		return nil, fmt.Errorf("create resolver: %w", err)
	}

	predictor, transformer, samples := loadModel(cfg, logger)
	scanner, err := scan.New(predictor, transformer, samples, in, cfg.ID, metrics.NewScanner(), logger.Named("scanner"))
	if err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}

	return &Node{
		ID:        cfg.ID,
		DevBoost:  cfg.DevBoost,
		Ledger:    l,
		Producer:  producer,
		Peers:     peers,
		Client:    client,
		Resolver:  res,
		Intake:    in,
		Scanner:   scanner,
		Contracts: engine,
	}, nil
}

// loadModel returns nil interfaces for every part that failed to load so
// the scanner reports itself unavailable.
func loadModel(cfg Config, logger *zap.Logger) (scan.Predictor, scan.Transformer, scan.SampleSource) {
	var (
		predictor   scan.Predictor
		transformer scan.Transformer
		samples     scan.SampleSource
	)
	if cfg.ModelPath == "" || cfg.ThresholdPath == "" || cfg.ScalerPath == "" || cfg.SamplesPath == "" {
		logger.Warn("detection artifacts not configured, scanning disabled")
		return nil, nil, nil
	}

	if d, err := detector.Load(cfg.ModelPath, cfg.ThresholdPath); err != nil {
		logger.Warn("detector unavailable", zap.Error(err))
	} else {
		predictor = d
	}
	if s, err := detector.LoadScaler(cfg.ScalerPath); err != nil {
		logger.Warn("scaler unavailable", zap.Error(err))
	} else {
		transformer = s
	}
	if s, err := detector.LoadSamples(cfg.SamplesPath); err != nil {
		logger.Warn("samples unavailable", zap.Error(err))
	} else {
		samples = s
	}
	return predictor, transformer, samples
}

// Resolve reconciles against every registered peer.
func (n *Node) Resolve(ctx context.Context) (resolver.Result, error) {
	return n.Resolver.Resolve(ctx, n.Peers.List())
}

func (n *Node) Status() api.StatusResponse {
	scanner := api.ScannerUnavailable
	if n.Scanner.Ready() {
		scanner = api.ScannerReady
	}
	peers := n.Peers.List()
	return api.StatusResponse{
		ID:            n.ID,
		Reputation:    n.Producer.Score(),
		PendingAlerts: n.Ledger.PendingCount(),
		ChainLength:   n.Ledger.Len(),
		PeerCount:     len(peers),
		Peers:         peers,
		Status:        api.StatusActive,
		Scanner:       scanner,
	}
}
