package types

import (
	"time"

	"github.com/google/uuid"
)

// StudyDocument stores the extracted text and AI summary of an uploaded
// document. Text extraction itself happens upstream of this service.
type StudyDocument struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Filename  string    `gorm:"not null;column:filename" json:"filename"`
	Text      string    `gorm:"column:text" json:"-"`
	Summary   string    `gorm:"column:summary" json:"summary"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (StudyDocument) TableName() string {
	return "study_document"
}
