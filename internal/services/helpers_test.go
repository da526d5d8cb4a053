package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/quizforge-backend/internal/db"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// newTestDB opens a per-test in-memory sqlite database with the full
// schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// fakeAI is the test double for the text-generation client.
type fakeAI struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastPrompt = user
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newQuizServiceForTest(t *testing.T, gdb *gorm.DB, ai *fakeAI) QuizService {
	t.Helper()
	log := mustTestLogger(t)
	hub := realtime.NewSSEHub(log)

	questionRepo := repos.NewQuestionRepo(gdb, log)
	attemptRepo := repos.NewAttemptRepo(gdb, log)
	progressRepo := repos.NewTopicProgressRepo(gdb, log)
	streakRepo := repos.NewUserStreakRepo(gdb, log)
	achievementRepo := repos.NewAchievementRepo(gdb, log)
	documentRepo := repos.NewStudyDocumentRepo(gdb, log)
	chatRepo := repos.NewChatMessageRepo(gdb, log)

	return NewQuizService(
		gdb,
		log,
		questionRepo,
		attemptRepo,
		progressRepo,
		streakRepo,
		achievementRepo,
		documentRepo,
		chatRepo,
		NewPerformanceService(gdb, log, attemptRepo),
		NewSynthesizerService(log, ai),
		NewNotifierService(log, hub, nil),
	)
}

func mustCreateQuestion(t *testing.T, gdb *gorm.DB, topic, text, answer string) *types.Question {
	t.Helper()
	opts, err := json.Marshal([]string{answer, "wrong a", "wrong b", "wrong c"})
	if err != nil {
		t.Fatalf("marshal options: %v", err)
	}
	q := &types.Question{
		ID:            uuid.New(),
		Topic:         topic,
		QuestionText:  text,
		CorrectAnswer: answer,
		Options:       datatypes.JSON(opts),
		Difficulty:    types.DifficultyMedium,
		Source:        "seed",
	}
	if err := gdb.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func mustCreateAttempt(t *testing.T, gdb *gorm.DB, userID, questionID uuid.UUID, correct bool, at time.Time) {
	t.Helper()
	a := &types.QuizAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		QuestionID:  questionID,
		IsCorrect:   correct,
		AnswerGiven: "x",
		Timestamp:   at,
	}
	if err := gdb.Create(a).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
}
