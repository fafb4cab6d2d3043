package migrations

import (
	"context"

	"journal-backend/internal/features/reports"
	"journal-backend/internal/util/jsonvalue"
)

// RowStore is the paginated read and per-row write surface migrations
// need from the report tables.
type RowStore interface {
	FindPage(ctx context.Context, query *reports.PageQuery, offset, limit int) ([]*reports.ReportRow, error)
	UpdateColumns(ctx context.Context, table string, id string, columns map[string]jsonvalue.Value) error
}

type RowAction int

const (
	RowActionConvert RowAction = iota
	RowActionSkip
)

// RowMigrator holds the two per-row decisions of a migration. Classify
// must not write; Convert is never called during a dry run.
type RowMigrator interface {
	Classify(ctx context.Context, row *reports.ReportRow) (RowAction, error)
	Convert(ctx context.Context, row *reports.ReportRow) error
}
