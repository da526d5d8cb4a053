package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
)

const (
	// minTopicAttempts is the statistical floor: topics with fewer
	// attempts are ignored so a single bad answer does not flag a topic.
	minTopicAttempts = 3
	// weakAccuracyThreshold marks a topic weak below this accuracy.
	weakAccuracyThreshold = 0.70
)

type PerformanceService interface {
	WeakTopics(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]string, error)
}

type performanceService struct {
	db          *gorm.DB
	log         *logger.Logger
	attemptRepo repos.AttemptRepo
}

func NewPerformanceService(db *gorm.DB, log *logger.Logger, attemptRepo repos.AttemptRepo) PerformanceService {
	serviceLog := log.With("service", "PerformanceService")
	return &performanceService{
		db:          db,
		log:         serviceLog,
		attemptRepo: attemptRepo,
	}
}

// WeakTopics returns up to limit topic names where the user's accuracy is
// below the threshold, worst first. Users with no qualifying history get
// an empty list; the caller substitutes a default topic set.
func (s *performanceService) WeakTopics(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]string, error) {
	rows, err := s.attemptRepo.TopicAccuracy(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	type scored struct {
		topic    string
		accuracy float64
	}
	var weak []scored
	for _, row := range rows {
		if row.Total < minTopicAttempts {
			continue
		}
		accuracy := float64(row.Correct) / float64(row.Total)
		if accuracy < weakAccuracyThreshold {
			weak = append(weak, scored{topic: row.Topic, accuracy: accuracy})
		}
	}

	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].accuracy < weak[j].accuracy
	})

	if limit > 0 && len(weak) > limit {
		weak = weak[:limit]
	}

	topics := make([]string, 0, len(weak))
	for _, w := range weak {
		topics = append(topics, w.topic)
	}
	return topics, nil
}
