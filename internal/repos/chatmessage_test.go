package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/quizforge-backend/internal/db"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

func newRepoTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
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
	return gdb, log
}

func TestGetRecentByUserID_NewestWindowInChronologicalOrder(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewChatMessageRepo(gdb, log)
	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		msg := &types.ChatMessage{
			ID:        uuid.New(),
			UserID:    userID,
			Role:      types.ChatRoleUser,
			Content:   fmt.Sprintf("m%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := gdb.Create(msg).Error; err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	recent, err := repo.GetRecentByUserID(context.Background(), nil, userID, 3)
	if err != nil {
		t.Fatalf("GetRecentByUserID: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(recent))
	}
	want := []string{"m2", "m3", "m4"}
	for i, msg := range recent {
		if msg.Content != want[i] {
			t.Fatalf("position %d: expected %q, got %q", i, want[i], msg.Content)
		}
	}
}

func TestGetRecentByUserID_ZeroLimitReturnsNothing(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewChatMessageRepo(gdb, log)

	recent, err := repo.GetRecentByUserID(context.Background(), nil, uuid.New(), 0)
	if err != nil {
		t.Fatalf("GetRecentByUserID: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected empty result, got %d", len(recent))
	}
}
