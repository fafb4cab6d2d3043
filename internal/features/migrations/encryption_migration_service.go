package migrations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"journal-backend/internal/features/encryption/documents"
	"journal-backend/internal/features/reports"
	"journal-backend/internal/util/jsonvalue"

	"github.com/google/uuid"
)

var ErrInvalidTableType = errors.New("tableType must be one of daily, weekly, monthly, both, all")

type DocumentEncryptor interface {
	Validate() error
	EncryptColumns(columns map[string]jsonvalue.Value) (map[string]jsonvalue.Value, error)
	DecryptDocument(value jsonvalue.Value) (jsonvalue.Value, error)
}

type EncryptionMigrationService struct {
	batchRunner       *BatchRunner
	rowStore          RowStore
	documentEncryptor DocumentEncryptor
	logger            *slog.Logger
}

func NewEncryptionMigrationService(
	batchRunner *BatchRunner,
	rowStore RowStore,
	documentEncryptor DocumentEncryptor,
	logger *slog.Logger,
) *EncryptionMigrationService {
	return &EncryptionMigrationService{batchRunner, rowStore, documentEncryptor, logger}
}

// MigrateReports encrypts the JSONB columns of every selected report
// table, one table after another. A table whose pages cannot be read is
// reported in FailedTables and the remaining tables still run.
func (s *EncryptionMigrationService) MigrateReports(
	ctx context.Context,
	request *MigrateReportsRequest,
) (*MigrationResponse, error) {
	reportTypes, err := resolveTableType(request.TableType)
	if err != nil {
		return nil, err
	}

	if err := s.documentEncryptor.Validate(); err != nil {
		return nil, err
	}

	options := RunOptions{
		UserID:    request.UserID,
		BatchSize: batchSizeOrDefault(request.BatchSize),
		DryRun:    request.DryRun,
	}

	response := &MigrationResponse{RunID: uuid.New().String()}
	for _, reportType := range reportTypes {
		table, err := reports.GetReportTable(reportType)
		if err != nil {
			return nil, err
		}

		stats, rowErrors, err := s.MigrateTable(ctx, table.Name, table.JSONColumns, options)
		*statsFor(&response.Stats, reportType) = *stats
		response.Errors = append(response.Errors, rowErrors...)

		if err != nil {
			s.logger.Error(
				"Report encryption stopped for table",
				"runId", response.RunID,
				"table", table.Name,
				"error", err,
			)
			response.FailedTables = append(response.FailedTables, &TableFailure{
				Table:   table.Name,
				Message: err.Error(),
			})
		}
	}

	response.Message = summarize("Encryption migration", options.DryRun, response)
	return response, nil
}

// MigrateTable runs one table. Rows with any encrypted leaf in any column
// are skipped; the rest get all columns encrypted in one write.
func (s *EncryptionMigrationService) MigrateTable(
	ctx context.Context,
	table string,
	columns []string,
	options RunOptions,
) (*MigrationStats, []*MigrationError, error) {
	s.logger.Info(
		"Starting report encryption",
		"table", table,
		"columns", columns,
		"userId", options.UserID,
		"batchSize", ClampBatchSize(options.BatchSize),
		"dryRun", options.DryRun,
	)

	stats, rowErrors, err := s.batchRunner.Run(
		ctx,
		&reports.PageQuery{Table: table, Columns: columns},
		options,
		&encryptionRowMigrator{s.rowStore, s.documentEncryptor, table},
	)

	s.logger.Info(
		"Finished report encryption",
		"table", table,
		"processed", stats.TotalProcessed,
		"encrypted", stats.TotalEncrypted,
		"skipped", stats.TotalSkipped,
		"errors", stats.TotalErrors,
	)

	return stats, rowErrors, err
}

type encryptionRowMigrator struct {
	rowStore          RowStore
	documentEncryptor DocumentEncryptor
	table             string
}

func (m *encryptionRowMigrator) Classify(
	_ context.Context,
	row *reports.ReportRow,
) (RowAction, error) {
	if documents.IsAnyEncrypted(row.Columns) {
		return RowActionSkip, nil
	}
	return RowActionConvert, nil
}

func (m *encryptionRowMigrator) Convert(ctx context.Context, row *reports.ReportRow) error {
	encrypted, err := m.documentEncryptor.EncryptColumns(row.Columns)
	if err != nil {
		return err
	}

	if err := m.rowStore.UpdateColumns(ctx, m.table, row.ID, encrypted); err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}

	return nil
}

func resolveTableType(tableType TableType) ([]reports.ReportType, error) {
	switch tableType {
	case "", TableTypeAll:
		return reports.AllReportTypes(), nil
	case TableTypeBoth:
		return []reports.ReportType{reports.ReportTypeDaily, reports.ReportTypeWeekly}, nil
	case TableTypeDaily:
		return []reports.ReportType{reports.ReportTypeDaily}, nil
	case TableTypeWeekly:
		return []reports.ReportType{reports.ReportTypeWeekly}, nil
	case TableTypeMonthly:
		return []reports.ReportType{reports.ReportTypeMonthly}, nil
	default:
		return nil, fmt.Errorf("%w, got %q", ErrInvalidTableType, tableType)
	}
}

func statsFor(stats *ReportStats, reportType reports.ReportType) *MigrationStats {
	switch reportType {
	case reports.ReportTypeWeekly:
		return &stats.Weekly
	case reports.ReportTypeMonthly:
		return &stats.Monthly
	default:
		return &stats.Daily
	}
}

func summarize(name string, dryRun bool, response *MigrationResponse) string {
	prefix := name
	if dryRun {
		prefix = name + " dry run"
	}

	if response.HasFailedTables() {
		return fmt.Sprintf("%s stopped early for %d table(s)", prefix, len(response.FailedTables))
	}

	if len(response.Errors) > 0 {
		return fmt.Sprintf("%s completed with %d row error(s)", prefix, len(response.Errors))
	}

	return prefix + " completed"
}
