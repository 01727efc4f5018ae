// Command cherrymap runs the batch pipeline: load the tree inventory and the
// neighborhood boundaries, normalize down to cherry records, and write the
// count report, the chart image, and the interactive map. Optionally the
// cleaned record set is published to Kafka and a health/metrics endpoint is
// served while the run is active.
package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "cherrymap/internal/adapter/http"
	kafkaadapter "cherrymap/internal/adapter/kafka"
	"cherrymap/internal/config"
	"cherrymap/internal/ingest"
	"cherrymap/internal/observability"
	"cherrymap/internal/pipeline"
	"cherrymap/internal/render"
	"cherrymap/internal/report"
)

func main() {
	_ = godotenv.Load() // absent .env is fine

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	sinks := []pipeline.Sink{
		&report.Sink{Out: os.Stdout, Logger: logger},
		&render.ChartSink{OutDir: cfg.OutDir, PerCultivar: cfg.PerCultivar, Logger: logger},
		&render.MapSink{OutDir: cfg.OutDir, Cluster: cfg.MapCluster, PerCultivar: cfg.PerCultivar, Logger: logger},
	}

	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(
		ingest.TreeFile{Path: cfg.TreesCSV},
		ingest.BoundaryArchive{Path: cfg.BoundariesZip},
		nil,
		sinks,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health and metrics endpoints, only when an orchestrator asks for them.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline failed", "error", runErr)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("run complete", "out_dir", cfg.OutDir)
}
