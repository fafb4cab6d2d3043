package migrations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"journal-backend/internal/features/reports"
	"journal-backend/internal/util/jsonvalue"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	moodAnalysisColumn = "mood_analysis"
	moodScoreKey       = "score"
	reportDateField    = "report_date"

	moodScoreSource = "daily_report_backfill"
)

var (
	ErrInvalidReportDate = errors.New("report_date is missing or invalid")
	ErrInvalidMoodScore  = errors.New("mood_analysis.score is not a number")
)

// MoodScoreMigrationService copies the score of legacy daily report
// mood_analysis documents into mood_scores rows.
type MoodScoreMigrationService struct {
	batchRunner       *BatchRunner
	moodScoreStore    MoodScoreStore
	documentEncryptor DocumentEncryptor
	logger            *slog.Logger
	now               func() time.Time
}

func NewMoodScoreMigrationService(
	batchRunner *BatchRunner,
	moodScoreStore MoodScoreStore,
	documentEncryptor DocumentEncryptor,
	logger *slog.Logger,
) *MoodScoreMigrationService {
	return &MoodScoreMigrationService{
		batchRunner:       batchRunner,
		moodScoreStore:    moodScoreStore,
		documentEncryptor: documentEncryptor,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func (s *MoodScoreMigrationService) MigrateMoodScores(
	ctx context.Context,
	request *MigrateMoodScoresRequest,
) (*MigrationResponse, error) {
	// scores may sit in already encrypted documents
	if err := s.documentEncryptor.Validate(); err != nil {
		return nil, err
	}

	table, err := reports.GetReportTable(reports.ReportTypeDaily)
	if err != nil {
		return nil, err
	}

	options := RunOptions{
		UserID:    request.UserID,
		BatchSize: batchSizeOrDefault(request.BatchSize),
		DryRun:    request.DryRun,
	}

	s.logger.Info(
		"Starting mood score backfill",
		"table", table.Name,
		"userId", options.UserID,
		"batchSize", ClampBatchSize(options.BatchSize),
		"dryRun", options.DryRun,
	)

	response := &MigrationResponse{RunID: uuid.New().String()}

	stats, rowErrors, err := s.batchRunner.Run(
		ctx,
		&reports.PageQuery{
			Table:   table.Name,
			Columns: []string{moodAnalysisColumn},
			Fields:  []string{reportDateField},
		},
		options,
		&moodScoreRowMigrator{s},
	)

	response.Stats.Daily = *stats
	response.Errors = rowErrors
	if err != nil {
		s.logger.Error(
			"Mood score backfill stopped",
			"runId", response.RunID,
			"table", table.Name,
			"error", err,
		)
		response.FailedTables = append(response.FailedTables, &TableFailure{
			Table:   table.Name,
			Message: err.Error(),
		})
	}

	s.logger.Info(
		"Finished mood score backfill",
		"processed", stats.TotalProcessed,
		"created", stats.TotalEncrypted,
		"skipped", stats.TotalSkipped,
		"errors", stats.TotalErrors,
	)

	response.Message = summarize("Mood score backfill", options.DryRun, response)
	return response, nil
}

type moodScoreRowMigrator struct {
	service *MoodScoreMigrationService
}

// Classify skips rows without a score and rows whose user already has a
// score for that date.
func (m *moodScoreRowMigrator) Classify(
	ctx context.Context,
	row *reports.ReportRow,
) (RowAction, error) {
	date, score, err := m.service.extractScore(row)
	if err != nil {
		return RowActionSkip, err
	}
	if score == nil {
		return RowActionSkip, nil
	}

	existing, err := m.service.moodScoreStore.FindByUserAndDate(ctx, row.UserID, date)
	if err != nil {
		return RowActionSkip, fmt.Errorf("failed to look up mood score: %w", err)
	}
	if existing != nil {
		return RowActionSkip, nil
	}

	return RowActionConvert, nil
}

// Convert creates the mood score, or updates it when one appeared after
// classification.
func (m *moodScoreRowMigrator) Convert(ctx context.Context, row *reports.ReportRow) error {
	date, score, err := m.service.extractScore(row)
	if err != nil {
		return err
	}
	if score == nil {
		return nil
	}

	now := m.service.now()

	moodScore, err := m.service.moodScoreStore.FindByUserAndDate(ctx, row.UserID, date)
	if err != nil {
		return fmt.Errorf("failed to look up mood score: %w", err)
	}

	if moodScore == nil {
		moodScore = &MoodScore{
			ID:        uuid.New(),
			UserID:    row.UserID,
			ScoreDate: date,
			Source:    moodScoreSource,
			CreatedAt: now,
		}
	}

	moodScore.Score = *score
	moodScore.UpdatedAt = now

	if err := m.service.moodScoreStore.Save(ctx, moodScore); err != nil {
		return fmt.Errorf("failed to save mood score: %w", err)
	}

	return nil
}

// extractScore returns a nil score when the document carries none.
func (s *MoodScoreMigrationService) extractScore(
	row *reports.ReportRow,
) (time.Time, *decimal.Decimal, error) {
	date, err := parseReportDate(row.Fields[reportDateField])
	if err != nil {
		return time.Time{}, nil, err
	}

	moodAnalysis, ok := row.Columns[moodAnalysisColumn]
	if !ok || moodAnalysis.Kind() != jsonvalue.KindObject {
		return date, nil, nil
	}

	rawScore, ok := moodAnalysis.Get(moodScoreKey)
	if !ok {
		return date, nil, nil
	}

	rawScore, err = s.documentEncryptor.DecryptDocument(rawScore)
	if err != nil {
		return date, nil, err
	}

	var score decimal.Decimal
	switch rawScore.Kind() {
	case jsonvalue.KindNull:
		return date, nil, nil
	case jsonvalue.KindNumber:
		score, err = decimal.NewFromString(rawScore.NumberValue().String())
	case jsonvalue.KindString:
		score, err = decimal.NewFromString(strings.TrimSpace(rawScore.Str()))
	default:
		return date, nil, ErrInvalidMoodScore
	}
	if err != nil {
		return date, nil, fmt.Errorf("%w: %v", ErrInvalidMoodScore, err)
	}

	return date, &score, nil
}

func parseReportDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrInvalidReportDate
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidReportDate, value)
}
