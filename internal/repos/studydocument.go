package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type StudyDocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, docs []*types.StudyDocument) ([]*types.StudyDocument, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StudyDocument, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudyDocument, error)
}

type studyDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyDocumentRepo(db *gorm.DB, baseLog *logger.Logger) StudyDocumentRepo {
	repoLog := baseLog.With("repo", "StudyDocumentRepo")
	return &studyDocumentRepo{db: db, log: repoLog}
}

func (r *studyDocumentRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.StudyDocument) ([]*types.StudyDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(docs) == 0 {
		return []*types.StudyDocument{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *studyDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StudyDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudyDocument
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

func (r *studyDocumentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudyDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudyDocument
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
