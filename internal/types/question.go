package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question rows are immutable once created. Options holds the ordered
// answer choices as a JSON array of strings (2 or more entries).
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Topic         string         `gorm:"not null;index;column:topic" json:"topic"`
	QuestionText  string         `gorm:"not null;column:question_text" json:"question_text"`
	CorrectAnswer string         `gorm:"not null;column:correct_answer" json:"-"`
	Options       datatypes.JSON `gorm:"type:jsonb;not null;column:options" json:"options"`
	Difficulty    string         `gorm:"not null;default:medium;column:difficulty" json:"difficulty"`
	Source        string         `gorm:"not null;default:seed;column:source" json:"source"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string {
	return "question"
}
