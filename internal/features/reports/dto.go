package reports

import "journal-backend/internal/util/jsonvalue"

type DecryptedReportDTO struct {
	ID         string                     `json:"id"`
	UserID     string                     `json:"userId"`
	ReportType ReportType                 `json:"reportType"`
	Fields     map[string]string          `json:"fields"`
	Columns    map[string]jsonvalue.Value `json:"columns"`
}
