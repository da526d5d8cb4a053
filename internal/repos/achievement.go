package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type AchievementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Achievement) ([]*types.Achievement, error)
	Exists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementType string) (bool, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (r *achievementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Achievement) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Achievement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *achievementRepo) Exists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementType string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Achievement{}).
		Where("user_id = ? AND achievement_type = ?", userID, achievementType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *achievementRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.Achievement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
