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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/tadash10/wasp/config"
	"github.com/tadash10/wasp/contracts/coreaccounts"
	"github.com/tadash10/wasp/contracts/coreblob"
	waspgrpc "github.com/tadash10/wasp/grpc"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmtypes"
)

// ServeOptions holds the flags of the serve command. Set flags override
// the configuration file.
type ServeOptions struct {
	Config      string
	Listen      string
	MetricsAddr string
	Storage     string
	DataPath    string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference host",
		Long: `Run the reference host with the core contracts deployed.

The host serves requests over gRPC and exposes Prometheus metrics over
HTTP. It stops on SIGINT or SIGTERM.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "gRPC listen address")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics", "", "metrics listen address")
	cmd.Flags().StringVar(&opts.Storage, "storage", "", "storage backend (memory|badger|leveldb)")
	cmd.Flags().StringVar(&opts.DataPath, "data", "", "storage directory")

	return cmd
}

func loadServeConfig(cmd *cobra.Command, opts *ServeOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.GRPC.Listen = opts.Listen
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Listen = opts.MetricsAddr
	}
	if flags.Changed("storage") {
		cfg.Storage.Backend = opts.Storage
	}
	if flags.Changed("data") {
		cfg.Storage.Path = opts.DataPath
	}
	return cfg, cfg.Validate()
}

// openStore opens the configured backend, wrapped in the read cache when
// one is configured. The returned func releases the backend.
func openStore(cfg config.StorageConfig) (wasmtypes.KVStore, func() error, error) {
	var (
		store   wasmtypes.KVStore
		release = func() error { return nil }
	)
	switch cfg.Backend {
	case config.StorageBadger:
		db, err := kv.OpenBadger(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		store, release = db, db.Close
	case config.StorageLevelDB:
		db, err := kv.OpenLevelDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		store, release = db, db.Close
	default:
		store = kv.NewDict()
	}
	if cfg.CacheSize > 0 {
		cached, err := kv.NewCached(store, cfg.CacheSize)
		if err != nil {
			_ = release()
			return nil, nil, err
		}
		store = cached
	}
	return store, release, nil
}

// newHost builds a server over store with the core contracts deployed.
// Contracts recorded by an earlier run are revived, not redeployed.
func newHost(chain wasmtypes.ScChainID, store wasmtypes.KVStore, log *zap.Logger, metrics *server.Metrics) (*server.Server, error) {
	srv, err := server.New(chain, server.WithStore(store), server.WithLogger(log), server.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}
	for _, c := range []server.Contract{coreaccounts.Contract(), coreblob.Contract()} {
		if _, err := srv.Register(context.Background(), c); err != nil && !errors.Is(err, server.ErrContractExists) {
			return nil, fmt.Errorf("deploy %s: %w", c.Name, err)
		}
	}
	return srv, nil
}

// shutdownGrace bounds how long open calls may delay shutdown. Waits
// without a deadline never end on their own once processing has stopped.
var shutdownGrace = 5 * time.Second

// stopGRPC drains gs for at most grace and then closes whatever is still
// open. It reports whether the drain finished in time.
func stopGRPC(gs *grpc.Server, grace time.Duration) bool {
	drained := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(drained)
	}()
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-drained:
		return true
	case <-timer.C:
		gs.Stop()
		<-drained
		return false
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	kv.SetLogger(log.Named("kv"))
	server.SetLogger(log.Named("server"))
	waspgrpc.SetLogger(log.Named("grpc"))

	chain, err := cfg.Chain()
	if err != nil {
		return err
	}
	store, release, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			log.Error("close storage", zap.Error(err))
		}
	}()

	metrics := server.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(registry); err != nil {
		return err
	}

	srv, err := newHost(chain, store, log.Named("server"), metrics)
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Listen)
	if err != nil {
		return err
	}
	gs := waspgrpc.NewGRPCServer(srv, log.Named("grpc")).NewServer()
	errs := make(chan error, 3)
	go func() { errs <- gs.Serve(lis) }()

	var metricsSrv *http.Server
	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { errs <- srv.Run(runCtx, cfg.ProcessInterval) }()

	log.Info("host started",
		zap.Stringer("chain", chain),
		zap.String("grpc", lis.Addr().String()),
		zap.String("metrics", cfg.Metrics.Listen),
		zap.String("storage", cfg.Storage.Backend),
	)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errs:
		log.Error("host stopped", zap.Error(err))
	}

	cancel()
	if !stopGRPC(gs, shutdownGrace) {
		log.Warn("grpc calls still open after grace period, closed them", zap.Duration("grace", shutdownGrace))
	}
	if metricsSrv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
