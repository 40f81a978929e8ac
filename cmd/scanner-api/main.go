package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vulnwatch/image-scanner-api/pkg/etc"
	"github.com/vulnwatch/image-scanner-api/pkg/ext"
	"github.com/vulnwatch/image-scanner-api/pkg/http/api"
	v1 "github.com/vulnwatch/image-scanner-api/pkg/http/api/v1"
	"github.com/vulnwatch/image-scanner-api/pkg/metrics"
	"github.com/vulnwatch/image-scanner-api/pkg/persistence/redis"
	"github.com/vulnwatch/image-scanner-api/pkg/redisx"
	"github.com/vulnwatch/image-scanner-api/pkg/scan"
	"github.com/vulnwatch/image-scanner-api/pkg/trivy"
)

var (
	// GoReleaser sets three ldflags:
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: etc.GetLogLevel(),
	})))

	info := etc.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	if err := run(info); err != nil {
		slog.Error("Error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(info etc.BuildInfo) error {
	slog.Info("Starting image-scanner-api",
		slog.String("version", info.Version),
		slog.String("commit", info.Commit),
		slog.String("built_at", info.Date),
	)

	config, err := etc.GetConfig()
	if err != nil {
		return fmt.Errorf("getting config: %w", err)
	}
	if err = etc.Check(config); err != nil {
		return fmt.Errorf("checking config: %w", err)
	}

	rdb, err := redisx.NewClient(config.RedisPool)
	if err != nil {
		return fmt.Errorf("constructing redis client: %w", err)
	}

	store := redis.NewStore(config.RedisStore, rdb, &ext.SystemClock{})
	wrapper := trivy.NewWrapper(config.Trivy, ext.DefaultAmbassador)
	controller := scan.NewController(store, wrapper, scan.NewTransformer(), config.Trivy.MaxConcurrentScans)

	apiHandler := v1.NewAPIHandler(info, controller, store)
	apiServer, err := api.NewServer(config.API, apiHandler)
	if err != nil {
		return fmt.Errorf("constructing API server: %w", err)
	}

	metricsServer := metrics.NewServer(config.Metrics)

	shutdownComplete := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		captured := <-sigint
		slog.Debug("Trapped os signal", slog.String("signal", captured.String()))

		apiServer.Shutdown()
		metricsServer.Shutdown(context.Background())

		close(shutdownComplete)
	}()

	if config.Metrics.Enabled {
		metricsServer.ListenAndServe()
	}
	apiServer.ListenAndServe()

	<-shutdownComplete
	return nil
}
