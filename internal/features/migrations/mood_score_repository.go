package migrations

import (
	"context"
	"errors"
	"time"

	"journal-backend/internal/storage"

	"gorm.io/gorm"
)

type MoodScoreStore interface {
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*MoodScore, error)
	Save(ctx context.Context, score *MoodScore) error
}

type MoodScoreRepository struct{}

// FindByUserAndDate returns nil without error when no score exists.
func (r *MoodScoreRepository) FindByUserAndDate(
	ctx context.Context,
	userID string,
	date time.Time,
) (*MoodScore, error) {
	var score MoodScore

	err := storage.GetDb().
		WithContext(ctx).
		Where("user_id = ? AND score_date = ?", userID, date.Format(time.DateOnly)).
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &score, nil
}

func (r *MoodScoreRepository) Save(ctx context.Context, score *MoodScore) error {
	return storage.GetDb().WithContext(ctx).Save(score).Error
}
