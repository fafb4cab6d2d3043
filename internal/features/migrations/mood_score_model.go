package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoodScore is the structured successor of the score embedded in the
// legacy daily report mood_analysis document.
type MoodScore struct {
	ID        uuid.UUID       `json:"id"        gorm:"column:id;primaryKey;type:uuid"`
	UserID    string          `json:"userId"    gorm:"column:user_id;type:uuid;not null"`
	ScoreDate time.Time       `json:"scoreDate" gorm:"column:score_date;type:date;not null"`
	Score     decimal.Decimal `json:"score"     gorm:"column:score;type:numeric(5,2);not null"`
	Source    string          `json:"source"    gorm:"column:source;type:text;not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;type:timestamp with time zone;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at;type:timestamp with time zone;not null"`
}

func (MoodScore) TableName() string {
	return "mood_scores"
}
