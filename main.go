package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/destination"
	"github.com/artie-labs/dedupe/lib/logger"
	"github.com/artie-labs/dedupe/lib/telemetry/metrics"
	"github.com/artie-labs/dedupe/processes/dedupe"
)

func run(ctx context.Context, settings *config.Settings) error {
	metricsClient := metrics.LoadExporter(settings.Config)

	store, err := destination.Load(ctx, settings.Config.Store)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close the store", slog.Any("err", closeErr))
		}
	}()

	deduplicator, err := dedupe.New(store, store.Dialect(), settings.Config, metricsClient)
	if err != nil {
		return fmt.Errorf("failed to create deduplicator: %w", err)
	}

	report, err := deduplicator.Run(ctx)
	if err != nil {
		return err
	}

	return report.Write(os.Stdout)
}

func main() {
	// Parse args into settings.
	settings, err := config.LoadSettings(os.Args[1:])
	if err != nil {
		logger.Fatal("Failed to load settings", slog.Any("err", err))
	}

	// Initialize default logger
	log, loggingToSentry := logger.NewLogger(settings)
	slog.SetDefault(log)

	slog.Info("Config is loaded",
		slog.String("store", string(settings.Config.Store.Kind)),
		slog.Int("tables", len(settings.Config.Tables)),
		slog.Int("deleteBatchSize", settings.Config.DeleteBatchSize),
		slog.Bool("dryRun", settings.Config.DryRun),
	)

	err = run(context.Background(), settings)
	if loggingToSentry {
		sentry.Flush(2 * time.Second)
	}

	if err != nil {
		logger.Fatal("Deduplication failed, no rows were changed", slog.Any("err", err))
	}
}
