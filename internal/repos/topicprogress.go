package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type TopicProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TopicProgress) ([]*types.TopicProgress, error)
	GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string) (*types.TopicProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TopicProgress, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.TopicProgress) error
}

type topicProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicProgressRepo(db *gorm.DB, baseLog *logger.Logger) TopicProgressRepo {
	repoLog := baseLog.With("repo", "TopicProgressRepo")
	return &topicProgressRepo{db: db, log: repoLog}
}

func (r *topicProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TopicProgress) ([]*types.TopicProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TopicProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *topicProgressRepo) GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string) (*types.TopicProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.TopicProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND topic = ?", userID, topic).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *topicProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TopicProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.TopicProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("topic ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *topicProgressRepo) Update(ctx context.Context, tx *gorm.DB, row *types.TopicProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(row).Error
}
