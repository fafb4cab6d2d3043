package migrations

import (
	"fmt"
)

// MigrationStats is recomputed on every run and never persisted.
type MigrationStats struct {
	TotalProcessed int `json:"totalProcessed"`
	TotalEncrypted int `json:"totalEncrypted"`
	TotalSkipped   int `json:"totalSkipped"`
	TotalErrors    int `json:"totalErrors"`
}

// MigrationError is one contained row failure. It never fails the run.
type MigrationError struct {
	Table   string `json:"table"`
	RowID   string `json:"rowId"`
	Message string `json:"message"`
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("%s row %s: %s", e.Table, e.RowID, e.Message)
}

type TableType string

const (
	TableTypeDaily   TableType = "daily"
	TableTypeWeekly  TableType = "weekly"
	TableTypeMonthly TableType = "monthly"
	TableTypeBoth    TableType = "both"
	TableTypeAll     TableType = "all"
)

const DefaultBatchSize = 50

type MigrateReportsRequest struct {
	UserID    string    `json:"userId"`
	TableType TableType `json:"tableType"`
	BatchSize *int      `json:"batchSize"`
	DryRun    bool      `json:"dryRun"`
}

type MigrateMoodScoresRequest struct {
	UserID    string `json:"userId"`
	BatchSize *int   `json:"batchSize"`
	DryRun    bool   `json:"dryRun"`
}

type ReportStats struct {
	Daily   MigrationStats `json:"daily"`
	Weekly  MigrationStats `json:"weekly"`
	Monthly MigrationStats `json:"monthly"`
}

// TableFailure is a table whose run stopped on a fatal fetch error.
type TableFailure struct {
	Table   string `json:"table"`
	Message string `json:"message"`
}

type MigrationResponse struct {
	RunID        string            `json:"runId"`
	Message      string            `json:"message"`
	Stats        ReportStats       `json:"stats"`
	Errors       []*MigrationError `json:"errors,omitempty"`
	FailedTables []*TableFailure   `json:"failedTables,omitempty"`
}

func (r *MigrationResponse) HasFailedTables() bool {
	return len(r.FailedTables) > 0
}

func batchSizeOrDefault(batchSize *int) int {
	if batchSize == nil {
		return DefaultBatchSize
	}
	return *batchSize
}
