package reports

import "journal-backend/internal/util/jsonvalue"

// ReportRow is one report table row as the migration and read paths see
// it: id, owner, selected plain columns as text and selected JSONB columns.
type ReportRow struct {
	ID      string
	UserID  string
	Fields  map[string]string
	Columns map[string]jsonvalue.Value
}

// PageQuery selects rows of Table ordered by id ascending, optionally
// restricted to one user.
type PageQuery struct {
	Table   string
	Columns []string
	Fields  []string
	UserID  string
}
