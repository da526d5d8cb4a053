package types

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt is the append-only audit record of one answered question.
// Rows are never updated or deleted; all derived stats recompute from them.
type QuizAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuestionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	IsCorrect   bool      `gorm:"not null;column:is_correct" json:"is_correct"`
	AnswerGiven string    `gorm:"column:answer_given" json:"answer_given"`
	Timestamp   time.Time `gorm:"not null;index;column:timestamp" json:"timestamp"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempt"
}
