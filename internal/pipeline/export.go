package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	// maxAttempts bounds retries per batch so a dead broker fails the run.
	maxAttempts = 5
)

// BatchLoader writes multiple donation records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, view domain.View) error
}

// ExportReport summarizes one export run.
type ExportReport struct {
	Records int
	Batches int
	Retries int
}

// Exporter publishes a filtered view in fixed-size batches.
type Exporter struct {
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// NewExporter creates an Exporter writing batchSize records per call.
func NewExporter(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Exporter {
	return &Exporter{
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Run writes every record in view. A batch that keeps failing after
// maxAttempts aborts the run; records from earlier batches stay published.
func (e *Exporter) Run(ctx context.Context, view domain.View) (ExportReport, error) {
	if e.batchSize <= 0 {
		return ExportReport{}, fmt.Errorf("invalid export batch size %d", e.batchSize)
	}
	e.logger.Info("export started", "records", len(view), "batch_size", e.batchSize)

	var report ExportReport
	for start := 0; start < len(view); start += e.batchSize {
		end := min(start+e.batchSize, len(view))
		retries, err := e.exportBatch(ctx, view[start:end])
		report.Retries += retries
		if err != nil {
			return report, err
		}
		report.Records += end - start
		report.Batches++
	}

	e.logger.Info("export finished",
		"records", report.Records,
		"batches", report.Batches,
		"retries", report.Retries,
	)
	return report, nil
}

// exportBatch loads one batch, backing off between failed attempts.
func (e *Exporter) exportBatch(ctx context.Context, batch domain.View) (int, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if !sleepWithContext(ctx, backoff) {
				return attempt - 1, ctx.Err()
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		start := time.Now()
		err := e.loader.LoadBatch(ctx, batch)
		if err == nil {
			e.metrics.RecordsExported.Add(float64(len(batch)))
			e.metrics.ExportBatchDuration.Observe(time.Since(start).Seconds())
			return attempt, nil
		}

		lastErr = err
		e.metrics.ExportErrors.Inc()
		e.logger.Error("export batch failed",
			"error", err,
			"batch_size", len(batch),
			"attempt", attempt+1,
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return attempt, err
		}
	}
	return maxAttempts - 1, fmt.Errorf("export batch of %d records: %w", len(batch), lastErr)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
