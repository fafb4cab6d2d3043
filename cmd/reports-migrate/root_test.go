package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"journal-backend/internal/features/migrations"

	"github.com/stretchr/testify/assert"
)

func Test_PrintResponse_WritesJSON(t *testing.T) {
	var out bytes.Buffer
	response := &migrations.MigrationResponse{
		RunID:   "run-1",
		Message: "Encryption migration completed",
		Stats: migrations.ReportStats{
			Daily: migrations.MigrationStats{TotalProcessed: 3, TotalEncrypted: 2, TotalSkipped: 1},
		},
	}

	err := printResponse(&out, response)
	assert.NoError(t, err)

	var decoded migrations.MigrationResponse
	assert.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, response.Stats, decoded.Stats)
	assert.Equal(t, "run-1", decoded.RunID)
}

func Test_PrintResponse_FailedTables_ReturnsError(t *testing.T) {
	var out bytes.Buffer
	response := &migrations.MigrationResponse{
		FailedTables: []*migrations.TableFailure{{Table: "weekly_reports", Message: "connection reset"}},
	}

	err := printResponse(&out, response)

	assert.ErrorIs(t, err, errTablesFailed)
	assert.Contains(t, out.String(), "weekly_reports")
}
