package reports

import (
	"context"
	"fmt"
	"log/slog"

	"journal-backend/internal/util/jsonvalue"
)

type ReportReader interface {
	FindByID(ctx context.Context, query *PageQuery, id string) (*ReportRow, error)
}

type ColumnsDecryptor interface {
	DecryptColumns(columns map[string]jsonvalue.Value) (map[string]jsonvalue.Value, error)
}

type ReportService struct {
	reportRepository ReportReader
	decryptor        ColumnsDecryptor
	logger           *slog.Logger
}

func NewReportService(
	reportRepository ReportReader,
	decryptor ColumnsDecryptor,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{reportRepository, decryptor, logger}
}

// GetDecryptedReport loads one report and decrypts every JSONB column.
// Leaves that were never encrypted are returned as stored.
func (s *ReportService) GetDecryptedReport(
	ctx context.Context,
	reportType ReportType,
	reportID string,
) (*DecryptedReportDTO, error) {
	table, err := GetReportTable(reportType)
	if err != nil {
		return nil, err
	}

	row, err := s.reportRepository.FindByID(ctx, &PageQuery{
		Table:   table.Name,
		Columns: table.JSONColumns,
		Fields:  table.PlainColumns,
	}, reportID)
	if err != nil {
		return nil, err
	}

	columns, err := s.decryptor.DecryptColumns(row.Columns)
	if err != nil {
		s.logger.Error(
			"Failed to decrypt report",
			"table", table.Name,
			"reportId", reportID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to decrypt report %s: %w", reportID, err)
	}

	return &DecryptedReportDTO{
		ID:         row.ID,
		UserID:     row.UserID,
		ReportType: reportType,
		Fields:     row.Fields,
		Columns:    columns,
	}, nil
}
