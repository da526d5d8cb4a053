package types

import (
	"time"

	"github.com/google/uuid"
)

// UserStreak is the dedicated per-user streak record. StreakDays counts
// consecutive calendar days (UTC) with at least one attempt; BestStreak
// is a high-water mark and never decreases.
type UserStreak struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	StreakDays   int       `gorm:"not null;default:0;column:streak_days" json:"streak_days"`
	BestStreak   int       `gorm:"not null;default:0;column:best_streak" json:"best_streak"`
	LastActivity time.Time `gorm:"not null;column:last_activity" json:"last_activity"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStreak) TableName() string {
	return "user_streak"
}
