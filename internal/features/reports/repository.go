package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"journal-backend/internal/storage"
	"journal-backend/internal/util/jsonvalue"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrSchemaMismatch = errors.New("report table or column does not exist")
)

type ReportRepository struct{}

func (r *ReportRepository) FindPage(
	ctx context.Context,
	query *PageQuery,
	offset, limit int,
) ([]*ReportRow, error) {
	if err := ValidatePageQuery(query); err != nil {
		return nil, err
	}

	db := r.selectRows(ctx, query)
	if query.UserID != "" {
		db = db.Where("user_id = ?", query.UserID)
	}

	rows, err := db.Order("id ASC").Offset(offset).Limit(limit).Rows()
	if err != nil {
		return nil, translateError(err)
	}
	defer func() { _ = rows.Close() }()

	result := []*ReportRow{}
	for rows.Next() {
		row, err := scanReportRow(rows, query)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return result, nil
}

func (r *ReportRepository) FindByID(
	ctx context.Context,
	query *PageQuery,
	id string,
) (*ReportRow, error) {
	if err := ValidatePageQuery(query); err != nil {
		return nil, err
	}

	rows, err := r.selectRows(ctx, query).Where("id = ?", id).Limit(1).Rows()
	if err != nil {
		return nil, translateError(err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, translateError(err)
		}
		return nil, ErrReportNotFound
	}

	return scanReportRow(rows, query)
}

// UpdateColumns writes all given JSONB columns of one row in a single
// UPDATE statement.
func (r *ReportRepository) UpdateColumns(
	ctx context.Context,
	table string,
	id string,
	columns map[string]jsonvalue.Value,
) error {
	columnNames := make([]string, 0, len(columns))
	updates := make(map[string]any, len(columns))
	for column, value := range columns {
		columnNames = append(columnNames, column)
		updates[column] = value
	}

	if err := ValidatePageQuery(&PageQuery{Table: table, Columns: columnNames}); err != nil {
		return err
	}

	result := storage.GetDb().
		WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}

	return nil
}

func (r *ReportRepository) selectRows(ctx context.Context, query *PageQuery) *gorm.DB {
	selectColumns := make([]string, 0, 2+len(query.Fields)+len(query.Columns))
	selectColumns = append(selectColumns, "id", "user_id")
	selectColumns = append(selectColumns, query.Fields...)
	selectColumns = append(selectColumns, query.Columns...)

	return storage.GetDb().WithContext(ctx).Table(query.Table).Select(selectColumns)
}

func scanReportRow(rows *sql.Rows, query *PageQuery) (*ReportRow, error) {
	var id, userID sql.NullString
	fieldValues := make([]sql.NullString, len(query.Fields))
	columnValues := make([]jsonvalue.Value, len(query.Columns))

	destinations := make([]any, 0, 2+len(fieldValues)+len(columnValues))
	destinations = append(destinations, &id, &userID)
	for i := range fieldValues {
		destinations = append(destinations, &fieldValues[i])
	}
	for i := range columnValues {
		destinations = append(destinations, &columnValues[i])
	}

	if err := rows.Scan(destinations...); err != nil {
		return nil, fmt.Errorf("failed to scan %s row: %w", query.Table, err)
	}

	row := &ReportRow{
		ID:      id.String,
		UserID:  userID.String,
		Fields:  make(map[string]string, len(query.Fields)),
		Columns: make(map[string]jsonvalue.Value, len(query.Columns)),
	}
	for i, field := range query.Fields {
		if fieldValues[i].Valid {
			row.Fields[field] = fieldValues[i].String
		}
	}
	for i, column := range query.Columns {
		row.Columns[column] = columnValues[i]
	}

	return row, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUndefinedTable || pgErr.Code == pgUndefinedColumn {
			return fmt.Errorf("%w: %s", ErrSchemaMismatch, pgErr.Message)
		}
	}

	return err
}
