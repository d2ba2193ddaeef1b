package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sqlscope/bridge/internal/collector"
	"github.com/sqlscope/bridge/internal/collector/metrics"
	"github.com/sqlscope/bridge/internal/common/config"
	"github.com/sqlscope/bridge/internal/common/logger"
	"github.com/sqlscope/bridge/internal/common/metricsserver"
	"github.com/sqlscope/bridge/pkg/tap"
	"github.com/sqlscope/bridge/pkg/types"
)

func main() {
	configPath := flag.String("c", "", "path to configuration file (built-in defaults when empty)")
	flag.Parse()

	initialLogger, err := logger.NewDefaultLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	initialLogger.Info("Starting tap collector", zap.String("config_path", *configPath))

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath, initialLogger)
		if err != nil {
			initialLogger.Fatal("Failed to load configuration", zap.Error(err))
		}
	}

	appLogger, err := logger.NewLogger(cfg.Log)
	if err != nil {
		initialLogger.Fatal("Failed to create configured logger", zap.Error(err))
	}
	defer appLogger.Sync()

	sink := buildSink(cfg, appLogger)
	defer func() {
		if err := sink.Close(); err != nil {
			appLogger.Error("Failed to close event sinks", zap.Error(err))
		}
	}()

	var collectorMetrics *metrics.CollectorMetrics
	if cfg.Metrics.Enabled {
		collectorMetrics = metrics.New(cfg.Metrics.Namespace, appLogger)
	}

	metricsServer, err := metricsserver.Start(
		cfg.Metrics.Enabled,
		cfg.Metrics.Listen,
		cfg.Metrics.Path,
		collectorMetrics,
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to start metrics server", zap.Error(err))
	}

	server := collector.NewServer(sink, collectorMetrics, appLogger)

	go func() {
		if err := server.Start(cfg.Server.Listen); err != nil {
			appLogger.Fatal("Collector server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout.Std())
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Failed to shut down collector server", zap.Error(err))
	}

	if metricsServer != nil {
		if err := metricsServer.ShutdownWithContext(ctx); err != nil {
			appLogger.Error("Failed to shut down metrics server", zap.Error(err))
		}
	}

	appLogger.Info("Collector stopped")
}

// buildSink assembles the configured sink chain. With nothing configured the
// collector still accepts events; they are just discarded.
func buildSink(cfg *config.CollectorConfig, appLogger *zap.Logger) tap.Sink {
	var sinks []tap.Sink

	if cfg.Sinks.Console {
		sinks = append(sinks, tap.NewLogSink(appLogger))
	}

	if cfg.Sinks.File != nil && cfg.Sinks.File.Enabled {
		fileSink, err := tap.NewFileSink(tap.FileSinkConfig{
			Path:     cfg.Sinks.File.Path,
			Template: cfg.Sinks.File.Template,
			Rotation: types.RotationConfig{
				MaxSize:    cfg.Sinks.File.Rotation.MaxSize,
				MaxAge:     cfg.Sinks.File.Rotation.MaxAge,
				MaxBackups: cfg.Sinks.File.Rotation.MaxBackups,
				Compress:   cfg.Sinks.File.Rotation.Compress,
			},
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create file event sink", zap.Error(err))
		}
		sinks = append(sinks, fileSink)
	}

	switch len(sinks) {
	case 0:
		appLogger.Warn("No event sinks configured, received events will be discarded")
		return tap.NoopSink{}
	case 1:
		return sinks[0]
	default:
		return tap.NewMultiSink(sinks...)
	}
}
