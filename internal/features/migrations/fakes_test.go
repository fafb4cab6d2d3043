package migrations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"journal-backend/internal/features/encryption/documents"
	"journal-backend/internal/features/encryption/secrets"
	"journal-backend/internal/features/reports"
	"journal-backend/internal/util/encryption"
	"journal-backend/internal/util/jsonvalue"

	"github.com/stretchr/testify/assert"
)

var (
	errSimulatedWrite = errors.New("simulated write failure")
	errSimulatedFetch = errors.New("simulated store unavailable")
)

// memoryRowStore keeps report rows per table, ordered by id.
type memoryRowStore struct {
	mu sync.Mutex

	rows map[string][]*reports.ReportRow

	failUpdateIDs   map[string]bool
	failFetchTables map[string]bool

	fetchCalls  int
	updateCalls int
}

func newMemoryRowStore() *memoryRowStore {
	return &memoryRowStore{
		rows:            map[string][]*reports.ReportRow{},
		failUpdateIDs:   map[string]bool{},
		failFetchTables: map[string]bool{},
	}
}

func (s *memoryRowStore) addRow(table, id, userID string, columns map[string]string) {
	row := &reports.ReportRow{
		ID:      id,
		UserID:  userID,
		Fields:  map[string]string{},
		Columns: map[string]jsonvalue.Value{},
	}
	for column, document := range columns {
		row.Columns[column] = jsonvalue.MustParse(document)
	}

	s.rows[table] = append(s.rows[table], row)
	sort.Slice(s.rows[table], func(i, j int) bool {
		return s.rows[table][i].ID < s.rows[table][j].ID
	})
}

func (s *memoryRowStore) addRawRow(table string, row *reports.ReportRow) {
	s.rows[table] = append(s.rows[table], row)
	sort.Slice(s.rows[table], func(i, j int) bool {
		return s.rows[table][i].ID < s.rows[table][j].ID
	})
}

func (s *memoryRowStore) FindPage(
	_ context.Context,
	query *reports.PageQuery,
	offset, limit int,
) ([]*reports.ReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetchCalls++
	if s.failFetchTables[query.Table] {
		return nil, errSimulatedFetch
	}

	matching := []*reports.ReportRow{}
	for _, row := range s.rows[query.Table] {
		if query.UserID == "" || row.UserID == query.UserID {
			matching = append(matching, row)
		}
	}

	if offset >= len(matching) {
		return []*reports.ReportRow{}, nil
	}
	end := min(offset+limit, len(matching))

	page := []*reports.ReportRow{}
	for _, row := range matching[offset:end] {
		page = append(page, cloneRow(row, query))
	}
	return page, nil
}

func (s *memoryRowStore) UpdateColumns(
	_ context.Context,
	table string,
	id string,
	columns map[string]jsonvalue.Value,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCalls++
	if s.failUpdateIDs[id] {
		return errSimulatedWrite
	}

	for _, row := range s.rows[table] {
		if row.ID == id {
			for column, value := range columns {
				row.Columns[column] = value
			}
			return nil
		}
	}

	return reports.ErrReportNotFound
}

// snapshot serializes every stored column, for byte-level comparisons.
func (s *memoryRowStore) snapshot(t *testing.T) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := map[string]string{}
	for table, rows := range s.rows {
		for _, row := range rows {
			for column, value := range row.Columns {
				data, err := value.MarshalJSON()
				assert.NoError(t, err)
				result[table+"/"+row.ID+"/"+column] = string(data)
			}
		}
	}
	return result
}

func (s *memoryRowStore) row(table, id string) *reports.ReportRow {
	for _, row := range s.rows[table] {
		if row.ID == id {
			return row
		}
	}
	return nil
}

func cloneRow(row *reports.ReportRow, query *reports.PageQuery) *reports.ReportRow {
	clone := &reports.ReportRow{
		ID:      row.ID,
		UserID:  row.UserID,
		Fields:  map[string]string{},
		Columns: map[string]jsonvalue.Value{},
	}
	for _, field := range query.Fields {
		if value, ok := row.Fields[field]; ok {
			clone.Fields[field] = value
		}
	}
	for _, column := range query.Columns {
		if value, ok := row.Columns[column]; ok {
			clone.Columns[column] = value
		}
	}
	return clone
}

type memoryMoodScoreStore struct {
	scores    map[string]*MoodScore
	failSave  bool
	saveCalls int
}

func newMemoryMoodScoreStore() *memoryMoodScoreStore {
	return &memoryMoodScoreStore{scores: map[string]*MoodScore{}}
}

func moodScoreLookupKey(userID string, date time.Time) string {
	return userID + "/" + date.Format(time.DateOnly)
}

func (s *memoryMoodScoreStore) FindByUserAndDate(
	_ context.Context,
	userID string,
	date time.Time,
) (*MoodScore, error) {
	score, ok := s.scores[moodScoreLookupKey(userID, date)]
	if !ok {
		return nil, nil
	}
	copied := *score
	return &copied, nil
}

func (s *memoryMoodScoreStore) Save(_ context.Context, score *MoodScore) error {
	s.saveCalls++
	if s.failSave {
		return errSimulatedWrite
	}
	copied := *score
	s.scores[moodScoreLookupKey(score.UserID, score.ScoreDate)] = &copied
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDocumentEncryptor(key string) *documents.DocumentEncryptor {
	return documents.NewDocumentEncryptor(encryption.NewSecretKeyFieldEncryptor(
		secrets.NewSecretKeyService(key, ""),
	))
}

var testKey = strings.Repeat("journal-test-key-", 3)

func newTestEncryptionService(store *memoryRowStore) *EncryptionMigrationService {
	return NewEncryptionMigrationService(
		NewBatchRunner(store, newTestLogger()),
		store,
		newTestDocumentEncryptor(testKey),
		newTestLogger(),
	)
}

func encryptForTest(t *testing.T, document string) string {
	encrypted, err := newTestDocumentEncryptor(testKey).EncryptDocument(jsonvalue.MustParse(document))
	assert.NoError(t, err)

	data, err := encrypted.MarshalJSON()
	assert.NoError(t, err)
	return string(data)
}

func intPtr(value int) *int {
	return &value
}
