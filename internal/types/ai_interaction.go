package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AIInteraction logs one round trip to the text-generation collaborator.
type AIInteraction struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind       string         `gorm:"not null;column:kind" json:"kind"`
	Prompt     string         `gorm:"column:prompt" json:"prompt"`
	Response   string         `gorm:"column:response" json:"response"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	DurationMS int64          `gorm:"column:duration_ms" json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (AIInteraction) TableName() string {
	return "ai_interaction"
}
