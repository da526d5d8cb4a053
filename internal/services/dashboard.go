package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type ActivityPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Topic string  `json:"topic"`
}

type TopicPerformance struct {
	Topic      string  `json:"topic"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type DashboardSnapshot struct {
	OverallScore     float64              `json:"overall_score"`
	TotalQuestions   int64                `json:"total_questions"`
	CorrectAnswers   int64                `json:"correct_answers"`
	RecentActivity   []ActivityPoint      `json:"recent_activity"`
	TopicPerformance []TopicPerformance   `json:"topic_performance"`
	Streak           int                  `json:"streak"`
	Achievements     []*types.Achievement `json:"achievements"`
}

type DashboardService interface {
	Dashboard(ctx context.Context, userID uuid.UUID, timeRange string) (*DashboardSnapshot, error)
}

type dashboardService struct {
	db              *gorm.DB
	log             *logger.Logger
	attemptRepo     repos.AttemptRepo
	streakRepo      repos.UserStreakRepo
	achievementRepo repos.AchievementRepo
}

func NewDashboardService(db *gorm.DB, log *logger.Logger, attemptRepo repos.AttemptRepo, streakRepo repos.UserStreakRepo, achievementRepo repos.AchievementRepo) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		db:              db,
		log:             serviceLog,
		attemptRepo:     attemptRepo,
		streakRepo:      streakRepo,
		achievementRepo: achievementRepo,
	}
}

func rangeDays(timeRange string) int {
	switch strings.ToLower(strings.TrimSpace(timeRange)) {
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 7
	}
}

// Dashboard assembles the snapshot from independent sub-aggregates. Each
// one that fails is logged and replaced with its zero value; the snapshot
// itself never hard-fails. This is a deliberate best-effort contract.
func (s *dashboardService) Dashboard(ctx context.Context, userID uuid.UUID, timeRange string) (*DashboardSnapshot, error) {
	now := time.Now().UTC()
	to := startOfDayUTC(now).AddDate(0, 0, 1)
	from := startOfDayUTC(now).AddDate(0, 0, -(rangeDays(timeRange) - 1))

	snapshot := &DashboardSnapshot{
		RecentActivity:   []ActivityPoint{},
		TopicPerformance: []TopicPerformance{},
		Achievements:     []*types.Achievement{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, correct, err := s.attemptRepo.CountInWindow(gctx, nil, userID, from, to)
		if err != nil {
			s.log.Warn("Dashboard totals failed, using zero values", "error", err)
			return nil
		}
		snapshot.TotalQuestions = total
		snapshot.CorrectAnswers = correct
		if total > 0 {
			snapshot.OverallScore = float64(correct) / float64(total) * 100
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.attemptRepo.DailyActivity(gctx, nil, userID, from, to)
		if err != nil {
			s.log.Warn("Dashboard activity series failed, using empty series", "error", err)
			return nil
		}
		points := make([]ActivityPoint, 0, len(rows))
		for _, row := range rows {
			score := 0.0
			if row.Total > 0 {
				score = float64(row.Correct) / float64(row.Total) * 100
			}
			points = append(points, ActivityPoint{Date: row.Day, Score: score, Topic: "Mixed"})
		}
		snapshot.RecentActivity = points
		return nil
	})

	g.Go(func() error {
		rows, err := s.attemptRepo.TopicAccuracyInWindow(gctx, nil, userID, from, to)
		if err != nil {
			s.log.Warn("Dashboard topic breakdown failed, using empty breakdown", "error", err)
			return nil
		}
		breakdown := make([]TopicPerformance, 0, len(rows))
		for _, row := range rows {
			pct := 0.0
			if row.Total > 0 {
				pct = float64(row.Correct) / float64(row.Total) * 100
			}
			breakdown = append(breakdown, TopicPerformance{
				Topic:      titleCase(row.Topic),
				Correct:    row.Correct,
				Total:      row.Total,
				Percentage: pct,
			})
		}
		snapshot.TopicPerformance = breakdown
		return nil
	})

	g.Go(func() error {
		// The streak is global, not window-scoped.
		row, err := s.streakRepo.GetByUserID(gctx, nil, userID)
		if err != nil {
			s.log.Warn("Dashboard streak failed, using zero", "error", err)
			return nil
		}
		if row != nil {
			snapshot.Streak = row.StreakDays
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.achievementRepo.GetByUserID(gctx, nil, userID)
		if err != nil {
			s.log.Warn("Dashboard achievements failed, using empty list", "error", err)
			return nil
		}
		snapshot.Achievements = rows
		return nil
	})

	_ = g.Wait()
	return snapshot, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
