// Command shipyard serves the fleet bill-of-materials API over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shipyard/internal/adapters/httpapi"
	"shipyard/internal/blob"
	"shipyard/internal/config"
	"shipyard/internal/core"
	"shipyard/internal/infra/logger"
	"shipyard/internal/infra/otel"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "shipyard:", err)
		stop()
		exitFunc(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("shipyard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	endpoint := ""
	if cfg.Tracing.Enabled {
		endpoint = cfg.Tracing.Endpoint
	}
	tp, shutdownTracing, err := otel.Setup(ctx, "shipyard", endpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	store, err := core.OpenPersistentStore(storageOptions(cfg), core.NewDefaultRulesEngine())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := core.CloseStore(store); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	opts := []core.ServiceOption{core.WithLogger(log), core.WithTracer(core.NewOTelTracer(tp))}
	var handlerOpts []httpapi.Option
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec, err := core.NewPrometheusMetricsRecorder(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, core.WithMetricsRecorder(rec))
		handlerOpts = append(handlerOpts, httpapi.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	svc := core.NewService(store, opts...)

	if cfg.App.Seed {
		if _, err := svc.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	blobs, err := blob.Open(ctx, blobConfig(cfg))
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	handlerOpts = append(handlerOpts,
		httpapi.WithLogger(log),
		httpapi.WithArchiver(core.NewSnapshotArchiver(store, blobs, log)),
	)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.NewHandler(svc, handlerOpts...),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr),
			zap.String("storage", cfg.Storage.Driver), zap.String("blob", cfg.Blob.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func storageOptions(cfg config.Config) core.StorageOptions {
	return core.StorageOptions{
		Driver:      core.StorageDriver(cfg.Storage.Driver),
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	}
}

func blobConfig(cfg config.Config) blob.Config {
	return blob.Config{
		Driver: blob.Driver(cfg.Blob.Driver),
		FSRoot: cfg.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:    cfg.Blob.S3.Bucket,
			Region:    cfg.Blob.S3.Region,
			Endpoint:  cfg.Blob.S3.Endpoint,
			PathStyle: cfg.Blob.S3.PathStyle,
		},
	}
}
