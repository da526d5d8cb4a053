package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type UserStreakRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.UserStreak) (*types.UserStreak, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStreak, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.UserStreak) error
}

type userStreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStreakRepo(db *gorm.DB, baseLog *logger.Logger) UserStreakRepo {
	repoLog := baseLog.With("repo", "UserStreakRepo")
	return &userStreakRepo{db: db, log: repoLog}
}

func (r *userStreakRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserStreak) (*types.UserStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *userStreakRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.UserStreak
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *userStreakRepo) Update(ctx context.Context, tx *gorm.DB, row *types.UserStreak) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(row).Error
}
