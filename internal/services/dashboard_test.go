package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

func TestDashboard_WeekWindowExcludesOldAttempts(t *testing.T) {
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	svc := NewDashboardService(gdb, log,
		repos.NewAttemptRepo(gdb, log),
		repos.NewUserStreakRepo(gdb, log),
		repos.NewAchievementRepo(gdb, log),
	)
	userID := uuid.New()
	now := time.Now().UTC()

	q := mustCreateQuestion(t, gdb, "science", "s1", "a")
	// Two attempts two days ago (in window), one eight days ago (out).
	mustCreateAttempt(t, gdb, userID, q.ID, true, now.AddDate(0, 0, -2))
	mustCreateAttempt(t, gdb, userID, q.ID, false, now.AddDate(0, 0, -2))
	mustCreateAttempt(t, gdb, userID, q.ID, true, now.AddDate(0, 0, -8))

	snapshot, err := svc.Dashboard(context.Background(), userID, "week")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if snapshot.TotalQuestions != 2 {
		t.Fatalf("expected 2 attempts in week window, got %d", snapshot.TotalQuestions)
	}
	if snapshot.CorrectAnswers != 1 {
		t.Fatalf("expected 1 correct in window, got %d", snapshot.CorrectAnswers)
	}
	if snapshot.OverallScore != 50 {
		t.Fatalf("expected 50%% overall, got %v", snapshot.OverallScore)
	}
	if len(snapshot.RecentActivity) != 1 {
		t.Fatalf("expected one activity day, got %d", len(snapshot.RecentActivity))
	}
	if snapshot.RecentActivity[0].Topic != "Mixed" {
		t.Fatalf("expected Mixed activity topic, got %q", snapshot.RecentActivity[0].Topic)
	}
}

func TestDashboard_TopicBreakdownIsTitleCased(t *testing.T) {
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	svc := NewDashboardService(gdb, log,
		repos.NewAttemptRepo(gdb, log),
		repos.NewUserStreakRepo(gdb, log),
		repos.NewAchievementRepo(gdb, log),
	)
	userID := uuid.New()
	now := time.Now().UTC()

	q := mustCreateQuestion(t, gdb, "computer science", "cs", "a")
	mustCreateAttempt(t, gdb, userID, q.ID, true, now)
	mustCreateAttempt(t, gdb, userID, q.ID, true, now)

	snapshot, err := svc.Dashboard(context.Background(), userID, "month")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(snapshot.TopicPerformance) != 1 {
		t.Fatalf("expected one topic bucket, got %d", len(snapshot.TopicPerformance))
	}
	got := snapshot.TopicPerformance[0]
	if got.Topic != "Computer Science" {
		t.Fatalf("expected title-cased topic, got %q", got.Topic)
	}
	if got.Total != 2 || got.Correct != 2 || got.Percentage != 100 {
		t.Fatalf("unexpected bucket %+v", got)
	}
}

func TestDashboard_IncludesStreakAndAchievements(t *testing.T) {
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	svc := NewDashboardService(gdb, log,
		repos.NewAttemptRepo(gdb, log),
		repos.NewUserStreakRepo(gdb, log),
		repos.NewAchievementRepo(gdb, log),
	)
	userID := uuid.New()
	now := time.Now().UTC()

	streak := &types.UserStreak{
		ID:           uuid.New(),
		UserID:       userID,
		StreakDays:   4,
		BestStreak:   9,
		LastActivity: now,
	}
	if err := gdb.Create(streak).Error; err != nil {
		t.Fatalf("create streak: %v", err)
	}
	badge := &types.Achievement{
		ID:              uuid.New(),
		UserID:          userID,
		AchievementType: types.AchievementFirstQuiz,
		Title:           "Quiz Beginner",
		Description:     "Completed your first quiz",
		Icon:            "fa-graduation-cap",
		EarnedDate:      now,
	}
	if err := gdb.Create(badge).Error; err != nil {
		t.Fatalf("create achievement: %v", err)
	}

	snapshot, err := svc.Dashboard(context.Background(), userID, "year")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if snapshot.Streak != 4 {
		t.Fatalf("expected streak 4, got %d", snapshot.Streak)
	}
	if len(snapshot.Achievements) != 1 || snapshot.Achievements[0].AchievementType != types.AchievementFirstQuiz {
		t.Fatalf("expected the seeded achievement, got %+v", snapshot.Achievements)
	}
}

func TestRangeDays_DefaultsToWeek(t *testing.T) {
	cases := map[string]int{
		"week":    7,
		"month":   30,
		"year":    365,
		"":        7,
		"bogus":   7,
		" MONTH ": 30,
	}
	for in, want := range cases {
		if got := rangeDays(in); got != want {
			t.Fatalf("rangeDays(%q) = %d, want %d", in, got, want)
		}
	}
}
