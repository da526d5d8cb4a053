package types

import (
	"time"

	"github.com/google/uuid"
)

// TopicProgress is the mutable per-(user, topic) aggregate. Counts only
// increase; invariant correct_answers <= total_questions.
type TopicProgress struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_topic,unique" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Topic          string    `gorm:"not null;index:idx_user_topic,unique;column:topic" json:"topic"`
	TotalQuestions int       `gorm:"not null;default:0;column:total_questions" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null;default:0;column:correct_answers" json:"correct_answers"`
	LastActivity   time.Time `gorm:"not null;column:last_activity" json:"last_activity"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (TopicProgress) TableName() string {
	return "topic_progress"
}
