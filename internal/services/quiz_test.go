package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/quizforge-backend/internal/types"
)

func TestGenerateQuiz_FillsFiveSlotsWithoutDuplicates(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	for i := 0; i < 8; i++ {
		mustCreateQuestion(t, gdb, "mathematics", fmt.Sprintf("m%d", i), "a")
	}

	views, err := svc.GenerateQuiz(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(views) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(views))
	}
	seen := map[uuid.UUID]bool{}
	for _, v := range views {
		if seen[v.ID] {
			t.Fatalf("duplicate question %s in quiz", v.ID)
		}
		seen[v.ID] = true
		if len(v.Options) == 0 {
			t.Fatalf("question %s has no options", v.ID)
		}
	}
}

// Quiz generation runs on one goroutine per request; run with -race.
func TestGenerateQuiz_SafeUnderConcurrentRequests(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})

	for i := 0; i < 10; i++ {
		mustCreateQuestion(t, gdb, "mathematics", fmt.Sprintf("m%d", i), "a")
	}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			views, err := svc.GenerateQuiz(context.Background(), uuid.New(), "")
			if err != nil {
				return err
			}
			if len(views) != 5 {
				return fmt.Errorf("expected 5 questions, got %d", len(views))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent GenerateQuiz: %v", err)
	}
}

func TestGenerateQuiz_SmallBankReturnsEverything(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})

	mustCreateQuestion(t, gdb, "science", "s1", "a")
	mustCreateQuestion(t, gdb, "history", "h1", "a")

	views, err := svc.GenerateQuiz(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected both bank questions, got %d", len(views))
	}
}

func TestSubmitQuiz_GradesCaseAndWhitespaceInsensitively(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	q1 := mustCreateQuestion(t, gdb, "science", "s1", "Mitochondria")
	q2 := mustCreateQuestion(t, gdb, "science", "s2", "Au")

	result, err := svc.SubmitQuiz(context.Background(), userID, []AnswerSubmission{
		{QuestionID: q1.ID, Answer: "  mitochondria "},
		{QuestionID: q2.ID, Answer: "AU"},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.CorrectAnswers != 2 || result.TotalQuestions != 2 {
		t.Fatalf("expected 2/2, got %d/%d", result.CorrectAnswers, result.TotalQuestions)
	}
	if result.Score != 100 {
		t.Fatalf("expected score 100, got %v", result.Score)
	}
}

func TestSubmitQuiz_PerfectScoreNeedsFiveQuestions(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	var answers []AnswerSubmission
	for i := 0; i < 5; i++ {
		q := mustCreateQuestion(t, gdb, "mathematics", fmt.Sprintf("m%d", i), "42")
		answers = append(answers, AnswerSubmission{QuestionID: q.ID, Answer: "42"})
	}

	result, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if !hasAchievement(result.NewAchievements, types.AchievementPerfectScore) {
		t.Fatalf("expected perfect_score achievement, got %v", achievementTypes(result.NewAchievements))
	}
	if !hasAchievement(result.NewAchievements, types.AchievementFirstQuiz) {
		t.Fatalf("expected first_quiz achievement, got %v", achievementTypes(result.NewAchievements))
	}
}

func TestSubmitQuiz_MissBlocksPerfectScore(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	var answers []AnswerSubmission
	for i := 0; i < 5; i++ {
		q := mustCreateQuestion(t, gdb, "mathematics", fmt.Sprintf("m%d", i), "42")
		given := "42"
		if i == 0 {
			given = "41"
		}
		answers = append(answers, AnswerSubmission{QuestionID: q.ID, Answer: given})
	}

	result, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.CorrectAnswers != 4 {
		t.Fatalf("expected 4 correct, got %d", result.CorrectAnswers)
	}
	if hasAchievement(result.NewAchievements, types.AchievementPerfectScore) {
		t.Fatalf("perfect_score must not be awarded on a miss")
	}
	if !hasAchievement(result.NewAchievements, types.AchievementFirstQuiz) {
		t.Fatalf("expected first_quiz achievement on first submission")
	}
}

func TestSubmitQuiz_AchievementsAreIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	var answers []AnswerSubmission
	for i := 0; i < 5; i++ {
		q := mustCreateQuestion(t, gdb, "science", fmt.Sprintf("s%d", i), "yes")
		answers = append(answers, AnswerSubmission{QuestionID: q.ID, Answer: "yes"})
	}

	first, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("first SubmitQuiz: %v", err)
	}
	if len(first.NewAchievements) != 2 {
		t.Fatalf("expected 2 achievements on first perfect quiz, got %v", achievementTypes(first.NewAchievements))
	}

	second, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("second SubmitQuiz: %v", err)
	}
	if len(second.NewAchievements) != 0 {
		t.Fatalf("expected no repeat awards, got %v", achievementTypes(second.NewAchievements))
	}

	var count int64
	if err := gdb.Model(&types.Achievement{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count achievements: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 achievement rows, got %d", count)
	}
}

func TestSubmitQuiz_StreakContinuityAndReset(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	q := mustCreateQuestion(t, gdb, "general", "g1", "a")
	answers := []AnswerSubmission{{QuestionID: q.ID, Answer: "a"}}

	first, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("first SubmitQuiz: %v", err)
	}
	if first.StreakDays != 1 {
		t.Fatalf("expected streak 1 after first submission, got %d", first.StreakDays)
	}

	// A second submission the same day has no attempt in yesterday's
	// window, so the streak stays at 1.
	sameDay, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("same-day SubmitQuiz: %v", err)
	}
	if sameDay.StreakDays != 1 {
		t.Fatalf("expected streak 1 on same-day resubmission, got %d", sameDay.StreakDays)
	}

	// Backdate an attempt into yesterday; the next submission extends the
	// streak.
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	mustCreateAttempt(t, gdb, userID, q.ID, true, yesterday)

	extended, err := svc.SubmitQuiz(context.Background(), userID, answers)
	if err != nil {
		t.Fatalf("extended SubmitQuiz: %v", err)
	}
	if extended.StreakDays != 2 {
		t.Fatalf("expected streak 2 with a yesterday attempt, got %d", extended.StreakDays)
	}

	var streak types.UserStreak
	if err := gdb.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		t.Fatalf("load streak row: %v", err)
	}
	if streak.BestStreak != 2 {
		t.Fatalf("expected best streak 2, got %d", streak.BestStreak)
	}
}

func TestSubmitQuiz_UnknownQuestionIsRecordedButNotBucketed(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})
	userID := uuid.New()

	q := mustCreateQuestion(t, gdb, "science", "s1", "a")
	unknown := uuid.New()

	result, err := svc.SubmitQuiz(context.Background(), userID, []AnswerSubmission{
		{QuestionID: q.ID, Answer: "a"},
		{QuestionID: unknown, Answer: "a"},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.TotalQuestions != 2 || result.CorrectAnswers != 1 {
		t.Fatalf("expected 1/2, got %d/%d", result.CorrectAnswers, result.TotalQuestions)
	}

	var attemptCount int64
	if err := gdb.Model(&types.QuizAttempt{}).Where("user_id = ?", userID).Count(&attemptCount).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if attemptCount != 2 {
		t.Fatalf("unknown question should still be recorded, got %d attempts", attemptCount)
	}

	var progress []types.TopicProgress
	if err := gdb.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(progress) != 1 || progress[0].Topic != "science" || progress[0].TotalQuestions != 1 {
		t.Fatalf("expected one science bucket with 1 question, got %+v", progress)
	}
}

func TestSubmitQuiz_RejectsEmptySubmission(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{})

	if _, err := svc.SubmitQuiz(context.Background(), uuid.New(), nil); err == nil {
		t.Fatalf("expected error for empty submission")
	}
}

func TestGenerateQuizFromDocument_RejectsForeignDocument(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuizServiceForTest(t, gdb, &fakeAI{reply: "[]"})

	owner := uuid.New()
	doc := &types.StudyDocument{
		ID:       uuid.New(),
		UserID:   owner,
		Filename: "notes.txt",
		Text:     "body",
		Summary:  "summary",
	}
	if err := gdb.Create(doc).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}

	if _, err := svc.GenerateQuizFromDocument(context.Background(), uuid.New(), doc.ID); err == nil {
		t.Fatalf("expected not-found for another user's document")
	}
}

func TestGenerateQuizFromDocument_PersistsGeneratedQuestions(t *testing.T) {
	gdb := newTestDB(t)
	ai := &fakeAI{reply: `[
		{"question_text": "What is covered?", "options": ["A", "B", "C", "D"], "correct_answer": "A", "topic": "Science"}
	]`}
	svc := newQuizServiceForTest(t, gdb, ai)

	owner := uuid.New()
	doc := &types.StudyDocument{
		ID:       uuid.New(),
		UserID:   owner,
		Filename: "notes.txt",
		Text:     "body",
		Summary:  "summary",
	}
	if err := gdb.Create(doc).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}

	views, err := svc.GenerateQuizFromDocument(context.Background(), owner, doc.ID)
	if err != nil {
		t.Fatalf("GenerateQuizFromDocument: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 generated question, got %d", len(views))
	}
	if views[0].Topic != "science" {
		t.Fatalf("expected lowercased topic, got %q", views[0].Topic)
	}

	var stored types.Question
	if err := gdb.Where("id = ?", views[0].ID).First(&stored).Error; err != nil {
		t.Fatalf("generated question not persisted: %v", err)
	}
	if stored.Source != "ai" {
		t.Fatalf("expected source ai, got %q", stored.Source)
	}
	if stored.CorrectAnswer != "A" {
		t.Fatalf("expected stored answer key, got %q", stored.CorrectAnswer)
	}
}

func hasAchievement(list []*types.Achievement, achievementType string) bool {
	for _, a := range list {
		if a.AchievementType == achievementType {
			return true
		}
	}
	return false
}

func achievementTypes(list []*types.Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.AchievementType)
	}
	return out
}
