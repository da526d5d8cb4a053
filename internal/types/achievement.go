package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AchievementPerfectScore = "perfect_score"
	AchievementFirstQuiz    = "first_quiz"
)

// Achievement rows are created once per (user, type) and never revoked.
type Achievement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_achievement,unique" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AchievementType string    `gorm:"not null;index:idx_user_achievement,unique;column:achievement_type" json:"achievement_type"`
	Title           string    `gorm:"not null;column:title" json:"title"`
	Description     string    `gorm:"column:description" json:"description"`
	Icon            string    `gorm:"column:icon" json:"icon"`
	EarnedDate      time.Time `gorm:"not null;column:earned_date" json:"earned_date"`
}

func (Achievement) TableName() string {
	return "achievement"
}
