// Command export loads the donor CSV, applies the same filters the dashboard
// accepts, and publishes the matching records to Kafka.
//
// Usage:
//
//	KAFKA_BROKERS=localhost:9092 go run ./cmd/export -state CA -gift-category '$15K-25K'
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/donor-map/internal/adapter/csvsource"
	kafkaadapter "github.com/couchcryptid/donor-map/internal/adapter/kafka"
	"github.com/couchcryptid/donor-map/internal/config"
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
	"github.com/couchcryptid/donor-map/internal/pipeline"
)

func main() {
	state := flag.String("state", domain.FilterAll, "state code to export")
	city := flag.String("city", domain.FilterAll, "city to export")
	category := flag.String("gift-category", domain.FilterAll, "gift category label to export")
	minGift := flag.String("min-gift", "", "minimum gift amount")
	maxGift := flag.String("max-gift", "", "maximum gift amount")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := pipeline.NewLoader(csvsource.NewFile(cfg.DataPath), nil, logger, metrics)
	table, _, err := loader.Load(ctx)
	if err != nil {
		logger.Error("failed to load donor table", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	filter := domain.ParseFilter(url.Values{
		"state":         {*state},
		"city":          {*city},
		"gift_category": {*category},
		"min_gift":      {*minGift},
		"max_gift":      {*maxGift},
	})
	view := filter.Apply(table.All())

	writer := kafkaadapter.NewWriter(cfg, logger)
	exporter := pipeline.NewExporter(writer, logger, metrics, cfg.BatchSize)

	_, runErr := exporter.Run(ctx, view)
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if runErr != nil {
		logger.Error("export failed", "topic", cfg.KafkaTopic, "error", runErr)
		os.Exit(1)
	}
}
