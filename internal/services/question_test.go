package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

func TestCreateBatch_PersistsNormalizedQuestions(t *testing.T) {
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	svc := NewQuestionService(gdb, log, repos.NewQuestionRepo(gdb, log),
		NewNotifierService(log, realtime.NewSSEHub(log), nil))

	created, err := svc.CreateBatch(context.Background(), []QuestionInput{
		{
			Topic:         " Mathematics ",
			QuestionText:  "What is 2+2?",
			CorrectAnswer: "4",
			Options:       []string{"3", "4", "5", "6"},
			Difficulty:    "EASY",
		},
		{
			Topic:         "science",
			QuestionText:  "Symbol for gold?",
			CorrectAnswer: "Au",
			Options:       []string{"Au", "Ag"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 created, got %d", created)
	}

	var stored types.Question
	if err := gdb.Where("topic = ?", "mathematics").First(&stored).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}
	if stored.Difficulty != types.DifficultyEasy {
		t.Fatalf("difficulty not normalized, got %q", stored.Difficulty)
	}
	if stored.Source != "seed" {
		t.Fatalf("expected seed source, got %q", stored.Source)
	}

	var defaulted types.Question
	if err := gdb.Where("topic = ?", "science").First(&defaulted).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}
	if defaulted.Difficulty != types.DifficultyMedium {
		t.Fatalf("expected medium default difficulty, got %q", defaulted.Difficulty)
	}
}

func TestCreateBatch_RejectsBadInput(t *testing.T) {
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	svc := NewQuestionService(gdb, log, repos.NewQuestionRepo(gdb, log),
		NewNotifierService(log, realtime.NewSSEHub(log), nil))

	cases := []QuestionInput{
		{Topic: "", QuestionText: "q", CorrectAnswer: "a", Options: []string{"a", "b"}},
		{Topic: "t", QuestionText: "q", CorrectAnswer: "a", Options: []string{"a"}},
		{Topic: "t", QuestionText: "q", CorrectAnswer: "a", Options: []string{"a", "b"}, Difficulty: "impossible"},
	}
	for i, in := range cases {
		if _, err := svc.CreateBatch(context.Background(), []QuestionInput{in}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("case %d: expected invalid-argument, got %v", i, err)
		}
	}

	if _, err := svc.CreateBatch(context.Background(), nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for empty batch, got %v", err)
	}
}

func TestCreateBatch_NotifiesInstructorChannel(t *testing.T) {
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	hub := realtime.NewSSEHub(log)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, realtime.RoleChannel(types.RoleInstructor))
	svc := NewQuestionService(gdb, log, repos.NewQuestionRepo(gdb, log),
		NewNotifierService(log, hub, nil))

	if _, err := svc.CreateBatch(context.Background(), []QuestionInput{
		{Topic: "Physics", QuestionText: "Unit of force?", CorrectAnswer: "Newton", Options: []string{"Newton", "Joule"}},
		{Topic: "physics", QuestionText: "Unit of energy?", CorrectAnswer: "Joule", Options: []string{"Newton", "Joule"}},
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	select {
	case msg := <-client.Outbound:
		if msg.Event != realtime.SSEEventQuestionBankGrew {
			t.Fatalf("unexpected event %q", msg.Event)
		}
		data, ok := msg.Data.(map[string]any)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg.Data)
		}
		if data["created"] != 2 {
			t.Fatalf("expected 2 created in payload, got %v", data["created"])
		}
	case <-time.After(time.Second):
		t.Fatalf("no instructor notification delivered")
	}
}
