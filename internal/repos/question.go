package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error)
	GetRandomByTopics(ctx context.Context, tx *gorm.DB, topics []string, count int, difficulty string) ([]*types.Question, error)
	GetRandom(ctx context.Context, tx *gorm.DB, count int, excludeIDs []uuid.UUID, difficulty string) ([]*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*types.Question{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetRandomByTopics samples up to count questions uniformly at random from
// the given topics. RANDOM() is supported by both postgres and sqlite.
func (r *questionRepo) GetRandomByTopics(ctx context.Context, tx *gorm.DB, topics []string, count int, difficulty string) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
	if len(topics) == 0 || count <= 0 {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Where("topic IN ?", topics)
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if err := query.
		Order("RANDOM()").
		Limit(count).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) GetRandom(ctx context.Context, tx *gorm.DB, count int, excludeIDs []uuid.UUID, difficulty string) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
	if count <= 0 {
		return results, nil
	}

	query := transaction.WithContext(ctx).Model(&types.Question{})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if err := query.
		Order("RANDOM()").
		Limit(count).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
