package migrations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"journal-backend/internal/features/reports"

	"golang.org/x/time/rate"
)

const (
	MinBatchSize = 1
	MaxBatchSize = 500
)

// ErrFetchFailed marks a page read failure. It stops the table's run;
// row failures never produce it.
var ErrFetchFailed = errors.New("failed to fetch rows")

type RunOptions struct {
	UserID    string
	BatchSize int
	DryRun    bool
}

func ClampBatchSize(batchSize int) int {
	return min(max(batchSize, MinBatchSize), MaxBatchSize)
}

// BatchRunner walks one table page by page in ascending id order and
// applies a RowMigrator to each row, one row at a time.
type BatchRunner struct {
	rowStore RowStore
	logger   *slog.Logger

	mu      sync.RWMutex
	limiter *rate.Limiter
}

func NewBatchRunner(rowStore RowStore, logger *slog.Logger) *BatchRunner {
	return &BatchRunner{rowStore: rowStore, logger: logger}
}

// SetRowsPerSecond throttles live conversions. Zero or less removes the
// throttle. Dry runs are never throttled since they do not write.
func (r *BatchRunner) SetRowsPerSecond(rowsPerSecond float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rowsPerSecond <= 0 {
		r.limiter = nil
		return
	}

	r.limiter = rate.NewLimiter(rate.Limit(rowsPerSecond), 1)
}

func (r *BatchRunner) Run(
	ctx context.Context,
	query *reports.PageQuery,
	options RunOptions,
	migrator RowMigrator,
) (*MigrationStats, []*MigrationError, error) {
	batchSize := ClampBatchSize(options.BatchSize)
	stats := &MigrationStats{}
	rowErrors := []*MigrationError{}

	pageQuery := *query
	pageQuery.UserID = options.UserID

	offset := 0
	for {
		page, err := r.rowStore.FindPage(ctx, &pageQuery, offset, batchSize)
		if err != nil {
			return stats, rowErrors, fmt.Errorf(
				"%w from %s at offset %d: %w",
				ErrFetchFailed,
				query.Table,
				offset,
				err,
			)
		}

		if len(page) == 0 {
			break
		}

		for _, row := range page {
			if err := ctx.Err(); err != nil {
				return stats, rowErrors, err
			}

			stats.TotalProcessed++

			if rowErr := r.processRow(ctx, query.Table, row, options.DryRun, migrator, stats); rowErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return stats, rowErrors, ctxErr
				}

				stats.TotalErrors++
				rowErrors = append(rowErrors, rowErr)

				r.logger.Warn(
					"Failed to migrate row",
					"table", query.Table,
					"rowId", row.ID,
					"error", rowErr.Message,
				)
			}
		}

		offset += len(page)
		if len(page) < batchSize {
			break
		}
	}

	return stats, rowErrors, nil
}

func (r *BatchRunner) processRow(
	ctx context.Context,
	table string,
	row *reports.ReportRow,
	dryRun bool,
	migrator RowMigrator,
	stats *MigrationStats,
) *MigrationError {
	action, err := migrator.Classify(ctx, row)
	if err != nil {
		return &MigrationError{Table: table, RowID: row.ID, Message: err.Error()}
	}

	if action == RowActionSkip {
		stats.TotalSkipped++
		return nil
	}

	if dryRun {
		stats.TotalEncrypted++
		return nil
	}

	if err := r.waitForWriteSlot(ctx); err != nil {
		return &MigrationError{Table: table, RowID: row.ID, Message: err.Error()}
	}

	if err := migrator.Convert(ctx, row); err != nil {
		return &MigrationError{Table: table, RowID: row.ID, Message: err.Error()}
	}

	stats.TotalEncrypted++
	return nil
}

func (r *BatchRunner) waitForWriteSlot(ctx context.Context) error {
	r.mu.RLock()
	limiter := r.limiter
	r.mu.RUnlock()

	if limiter == nil {
		return nil
	}

	return limiter.Wait(ctx)
}
