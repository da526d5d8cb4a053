package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type AIInteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.AIInteraction) ([]*types.AIInteraction, error)
}

type aiInteractionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAIInteractionRepo(db *gorm.DB, baseLog *logger.Logger) AIInteractionRepo {
	repoLog := baseLog.With("repo", "AIInteractionRepo")
	return &aiInteractionRepo{db: db, log: repoLog}
}

func (r *aiInteractionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AIInteraction) ([]*types.AIInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.AIInteraction{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
