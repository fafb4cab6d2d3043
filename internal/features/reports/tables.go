package reports

import (
	"errors"
	"fmt"
	"slices"
)

type ReportType string

const (
	ReportTypeDaily   ReportType = "daily"
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeMonthly ReportType = "monthly"
)

var ErrUnknownReportType = errors.New("unknown report type")

// ReportTable describes one report table: its JSONB columns holding
// generated narrative and the plain columns other features read.
type ReportTable struct {
	Type         ReportType
	Name         string
	JSONColumns  []string
	PlainColumns []string
}

var reportTables = []ReportTable{
	{
		Type:         ReportTypeDaily,
		Name:         "daily_reports",
		JSONColumns:  []string{"content", "insights", "mood_analysis"},
		PlainColumns: []string{"report_date"},
	},
	{
		Type:         ReportTypeWeekly,
		Name:         "weekly_reports",
		JSONColumns:  []string{"content", "patterns", "recommendations"},
		PlainColumns: []string{"week_start"},
	},
	{
		Type:         ReportTypeMonthly,
		Name:         "monthly_reports",
		JSONColumns:  []string{"content", "themes", "growth_analysis"},
		PlainColumns: []string{"month_start"},
	},
}

func AllReportTypes() []ReportType {
	return []ReportType{ReportTypeDaily, ReportTypeWeekly, ReportTypeMonthly}
}

func GetReportTable(reportType ReportType) (ReportTable, error) {
	for _, table := range reportTables {
		if table.Type == reportType {
			return table, nil
		}
	}

	return ReportTable{}, fmt.Errorf("%w: %s", ErrUnknownReportType, reportType)
}

func findTableByName(name string) (ReportTable, bool) {
	for _, table := range reportTables {
		if table.Name == name {
			return table, true
		}
	}
	return ReportTable{}, false
}

// ValidatePageQuery only lets registered identifiers reach SQL.
func ValidatePageQuery(query *PageQuery) error {
	table, ok := findTableByName(query.Table)
	if !ok {
		return fmt.Errorf("table %q is not a report table", query.Table)
	}

	for _, column := range query.Columns {
		if !slices.Contains(table.JSONColumns, column) {
			return fmt.Errorf("column %q is not a JSON column of %s", column, table.Name)
		}
	}

	for _, field := range query.Fields {
		if !slices.Contains(table.PlainColumns, field) {
			return fmt.Errorf("column %q is not a plain column of %s", field, table.Name)
		}
	}

	return nil
}
