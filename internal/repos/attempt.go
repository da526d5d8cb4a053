package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

// TopicAccuracyRow is one aggregation bucket from the attempt history,
// joined against the question bank for the topic.
type TopicAccuracyRow struct {
	Topic   string
	Total   int
	Correct int
}

// DailyActivityRow aggregates attempts per UTC calendar day.
type DailyActivityRow struct {
	Day     string
	Total   int
	Correct int
}

type AttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, int64, error)
	TopicAccuracy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]TopicAccuracyRow, error)
	TopicAccuracyInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]TopicAccuracyRow, error)
	DailyActivity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]DailyActivityRow, error)
	HasAttemptBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (bool, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	repoLog := baseLog.With("repo", "AttemptRepo")
	return &attemptRepo{db: db, log: repoLog}
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attemptRepo) CountInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row struct {
		Total   int64
		Correct int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Select("COUNT(*) AS total, SUM(CASE WHEN is_correct THEN 1 ELSE 0 END) AS correct").
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Total, row.Correct, nil
}

func (r *attemptRepo) TopicAccuracy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]TopicAccuracyRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []TopicAccuracyRow
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Select("question.topic AS topic, COUNT(*) AS total, SUM(CASE WHEN quiz_attempt.is_correct THEN 1 ELSE 0 END) AS correct").
		Joins("JOIN question ON question.id = quiz_attempt.question_id").
		Where("quiz_attempt.user_id = ?", userID).
		Group("question.topic").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attemptRepo) TopicAccuracyInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]TopicAccuracyRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []TopicAccuracyRow
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Select("question.topic AS topic, COUNT(*) AS total, SUM(CASE WHEN quiz_attempt.is_correct THEN 1 ELSE 0 END) AS correct").
		Joins("JOIN question ON question.id = quiz_attempt.question_id").
		Where("quiz_attempt.user_id = ? AND quiz_attempt.timestamp >= ? AND quiz_attempt.timestamp < ?", userID, from, to).
		Group("question.topic").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyActivity aggregates in Go rather than SQL so the day bucketing does
// not depend on engine-specific date functions.
func (r *attemptRepo) DailyActivity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]DailyActivityRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var attempts []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*DailyActivityRow{}
	var order []string
	for _, a := range attempts {
		day := a.Timestamp.UTC().Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &DailyActivityRow{Day: day}
			byDay[day] = row
			order = append(order, day)
		}
		row.Total++
		if a.IsCorrect {
			row.Correct++
		}
	}

	rows := make([]DailyActivityRow, 0, len(order))
	for _, day := range order {
		rows = append(rows, *byDay[day])
	}
	return rows, nil
}

func (r *attemptRepo) HasAttemptBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
