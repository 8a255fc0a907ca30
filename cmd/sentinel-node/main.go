package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"

	"github.com/goodnatureofminers/sentinelmesh/internal/archive"
	"github.com/goodnatureofminers/sentinelmesh/internal/archive/clickhouse"
	"github.com/goodnatureofminers/sentinelmesh/internal/metrics"
	"github.com/goodnatureofminers/sentinelmesh/internal/node"
	"github.com/goodnatureofminers/sentinelmesh/internal/reputation"
	"github.com/goodnatureofminers/sentinelmesh/internal/service"
	"github.com/goodnatureofminers/sentinelmesh/internal/transport"
)

type config struct {
	Addr         string        `long:"addr" env:"SENTINEL_ADDR" description:"HTTP listen address" default:":5000"`
	GRPCAddr     string        `long:"grpc-addr" env:"SENTINEL_GRPC_ADDR" description:"gRPC health listen address, empty disables"`
	NodeID       string        `long:"node-id" env:"SENTINEL_NODE_ID" description:"node id, random when empty"`
	Peers        []string      `long:"peer" env:"SENTINEL_PEERS" env-delim:"," description:"initial peer (host:port, URL or multiaddr), repeatable"`
	PeerTimeout  time.Duration `long:"peer-timeout" env:"SENTINEL_PEER_TIMEOUT" description:"per-peer request timeout" default:"3s"`
	PeerFetchRPS int           `long:"peer-fetch-rps" env:"SENTINEL_PEER_FETCH_RPS" description:"max chain fetches per second, 0 is unlimited" default:"0"`
	SyncInterval time.Duration `long:"sync-interval" env:"SENTINEL_SYNC_INTERVAL" description:"periodic resolve interval, 0 disables" default:"0"`
	DevBoost     bool          `long:"dev-boost" env:"SENTINEL_DEV_BOOST" description:"enable the /reputation/boost test endpoint"`
	LogJSON      bool          `long:"log-json" env:"SENTINEL_LOG_JSON" description:"production JSON logging"`

	ModelPath     string `long:"model" env:"SENTINEL_MODEL" description:"autoencoder artifact (JSON)" default:"models/autoencoder.json"`
	ThresholdPath string `long:"threshold" env:"SENTINEL_THRESHOLD" description:"anomaly threshold artifact" default:"models/ae_threshold.txt"`
	ScalerPath    string `long:"scaler" env:"SENTINEL_SCALER" description:"feature scaler artifact (JSON)" default:"models/scaler.json"`
	SamplesPath   string `long:"samples" env:"SENTINEL_SAMPLES" description:"traffic samples (CSV)" default:"data/samples.csv"`
	ContractsFile string `long:"contracts" env:"SENTINEL_CONTRACTS" description:"contract catalog (YAML), built-in catalog when empty"`

	ClickhouseDSN      string        `long:"clickhouse-dsn" env:"SENTINEL_CLICKHOUSE_DSN" description:"ClickHouse DSN for the block archive, empty disables"`
	ArchiveFlushSize   int           `long:"archive-flush-size" env:"SENTINEL_ARCHIVE_FLUSH_SIZE" description:"blocks per archive batch" default:"100"`
	ArchiveFlushPeriod time.Duration `long:"archive-flush-period" env:"SENTINEL_ARCHIVE_FLUSH_PERIOD" description:"archive flush interval" default:"5s"`
	ArchiveFlushRPS    int           `long:"archive-flush-rps" env:"SENTINEL_ARCHIVE_FLUSH_RPS" description:"max archive flushes per second, 0 is unlimited" default:"0"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("sentinel node failed", zap.Error(err))
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if cfg.NodeID == "" {
		cfg.NodeID = uuid.NewString()[:8]
	}

	n, err := node.New(node.Config{
		ID:            cfg.NodeID,
		Reputation:    reputation.DefaultConfig(),
		Peers:         cfg.Peers,
		PeerTimeout:   cfg.PeerTimeout,
		PeerFetchRPS:  cfg.PeerFetchRPS,
		DevBoost:      cfg.DevBoost,
		ModelPath:     cfg.ModelPath,
		ThresholdPath: cfg.ThresholdPath,
		ScalerPath:    cfg.ScalerPath,
		SamplesPath:   cfg.SamplesPath,
		ContractsFile: cfg.ContractsFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("init node: %w", err)
	}
	logger = logger.With(zap.String("node", n.ID))
	logger.Info("node initialized",
		zap.Strings("peers", n.Peers.List()),
		zap.Bool("scanner_ready", n.Scanner.Ready()),
		zap.Bool("dev_boost", n.DevBoost))

	if cfg.ClickhouseDSN != "" {
		closeArchive, err := startArchive(ctx, cfg, n, logger)
		if err != nil {
			return err
		}
		defer closeArchive()
	}

	syncer, err := service.NewSyncService(n, metrics.NewSync(), cfg.SyncInterval, logger.Named("sync"))
	if err != nil {
		return err
	}
	go func() {
		if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("sync loop stopped", zap.Error(err))
		}
	}()

	if cfg.GRPCAddr != "" {
		if err := startGRPC(ctx, cfg.GRPCAddr, n, logger); err != nil {
			return err
		}
	}

	return serveHTTP(ctx, cfg.Addr, n, logger)
}

func (c config) archiveConfig() archive.Config {
	return archive.Config{
		FlushSize:     c.ArchiveFlushSize,
		FlushInterval: c.ArchiveFlushPeriod,
		FlushRPS:      c.ArchiveFlushRPS,
	}
}

func startArchive(ctx context.Context, cfg config, n *node.Node, logger *zap.Logger) (func(), error) {
	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewArchiveRepository())
	if err != nil {
		return nil, fmt.Errorf("init archive repository: %w", err)
	}
	exporter, err := archive.NewExporter(repo, n.ID, cfg.archiveConfig(), metrics.NewArchiveExporter(), logger.Named("archive"))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	exporter.Start(ctx)
	exporter.Attach(n.Ledger)

	return func() {
		exporter.Stop()
		if err := repo.Close(); err != nil {
			logger.Warn("close archive repository", zap.Error(err))
		}
	}, nil
}

func startGRPC(ctx context.Context, addr string, n *node.Node, logger *zap.Logger) error {
	healthServer := health.NewServer()
	transport.ReportReadiness(healthServer, n.Scanner.Ready())
	grpcServer := transport.NewGRPCServer(logger, healthServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", addr, err)
	}
	go func() {
		logger.Info("Starting gRPC server", zap.String("addr", addr))
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("gRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}()
	return nil
}

func serveHTTP(ctx context.Context, addr string, n *node.Node, logger *zap.Logger) error {
	handler, err := transport.NewHTTPHandler(n, metrics.NewHTTP(), logger.Named("http"))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
