package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/types"
)

// Post-submission bookkeeping: topic aggregates, day-streak continuity,
// badge issuance. All helpers run inside the submission transaction.

func (s *quizService) bumpTopicProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string, total, correct int, now time.Time) error {
	row, err := s.progressRepo.GetByUserAndTopic(ctx, tx, userID, topic)
	if err != nil {
		return err
	}
	if row == nil {
		_, err = s.progressRepo.Create(ctx, tx, []*types.TopicProgress{{
			ID:             uuid.New(),
			UserID:         userID,
			Topic:          topic,
			TotalQuestions: total,
			CorrectAnswers: correct,
			LastActivity:   now,
		}})
		return err
	}
	row.TotalQuestions += total
	row.CorrectAnswers += correct
	row.LastActivity = now
	return s.progressRepo.Update(ctx, tx, row)
}

func (s *quizService) hadAttemptYesterday(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (bool, error) {
	todayStart := startOfDayUTC(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	return s.attemptRepo.HasAttemptBetween(ctx, tx, userID, yesterdayStart, todayStart)
}

// updateStreak: an attempt yesterday extends the streak, otherwise it
// resets to 1. The first-ever submission initializes both counters.
func (s *quizService) updateStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID, hadAttemptYesterday bool, now time.Time) (int, error) {
	row, err := s.streakRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if row == nil {
		row = &types.UserStreak{
			ID:           uuid.New(),
			UserID:       userID,
			StreakDays:   1,
			BestStreak:   1,
			LastActivity: now,
		}
		if _, cErr := s.streakRepo.Create(ctx, tx, row); cErr != nil {
			return 0, cErr
		}
		return row.StreakDays, nil
	}

	if hadAttemptYesterday {
		row.StreakDays++
	} else {
		row.StreakDays = 1
	}
	if row.StreakDays > row.BestStreak {
		row.BestStreak = row.StreakDays
	}
	row.LastActivity = now
	if uErr := s.streakRepo.Update(ctx, tx, row); uErr != nil {
		return 0, uErr
	}
	return row.StreakDays, nil
}

// checkAchievements evaluates the badge rules for this submission. Each
// rule is idempotent: an existence query guards the insert.
func (s *quizService) checkAchievements(ctx context.Context, tx *gorm.DB, userID uuid.UUID, correctCount, totalCount int, now time.Time) ([]*types.Achievement, error) {
	var earned []*types.Achievement

	if correctCount == totalCount && totalCount >= 5 {
		a, err := s.awardOnce(ctx, tx, userID, types.AchievementPerfectScore,
			"Perfect Score!",
			fmt.Sprintf("Got all %d questions correct in a quiz", totalCount),
			"fa-star", now)
		if err != nil {
			return nil, err
		}
		if a != nil {
			earned = append(earned, a)
		}
	}

	// Heuristic first-quiz check: the full attempt history (including
	// this submission) is no larger than the submission itself.
	attemptCount, err := s.attemptRepo.CountByUserID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if attemptCount <= int64(totalCount) {
		a, aErr := s.awardOnce(ctx, tx, userID, types.AchievementFirstQuiz,
			"Quiz Beginner",
			"Completed your first quiz",
			"fa-graduation-cap", now)
		if aErr != nil {
			return nil, aErr
		}
		if a != nil {
			earned = append(earned, a)
		}
	}

	return earned, nil
}

func (s *quizService) awardOnce(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementType, title, description, icon string, now time.Time) (*types.Achievement, error) {
	exists, err := s.achievementRepo.Exists(ctx, tx, userID, achievementType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	row := &types.Achievement{
		ID:              uuid.New(),
		UserID:          userID,
		AchievementType: achievementType,
		Title:           title,
		Description:     description,
		Icon:            icon,
		EarnedDate:      now,
	}
	if _, cErr := s.achievementRepo.Create(ctx, tx, []*types.Achievement{row}); cErr != nil {
		return nil, cErr
	}
	return row, nil
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
