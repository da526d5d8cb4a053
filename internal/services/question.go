package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

// QuestionInput is the administration shape for seeding or creating bank
// questions.
type QuestionInput struct {
	Topic         string   `json:"topic" yaml:"topic"`
	QuestionText  string   `json:"question_text" yaml:"question_text"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Options       []string `json:"options" yaml:"options"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
}

type QuestionService interface {
	CreateBatch(ctx context.Context, inputs []QuestionInput) (int, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	notifier     NotifierService
}

func NewQuestionService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, notifier NotifierService) QuestionService {
	serviceLog := log.With("service", "QuestionService")
	return &questionService{db: db, log: serviceLog, questionRepo: questionRepo, notifier: notifier}
}

func (s *questionService) CreateBatch(ctx context.Context, inputs []QuestionInput) (int, error) {
	rows := make([]*types.Question, 0, len(inputs))
	for i, in := range inputs {
		row, err := buildQuestion(in)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no questions supplied", pkgerrors.ErrInvalidArgument)
	}
	if _, err := s.questionRepo.Create(ctx, nil, rows); err != nil {
		return 0, fmt.Errorf("create questions: %w", err)
	}

	topics := make(map[string]bool, len(rows))
	for _, row := range rows {
		topics[row.Topic] = true
	}
	topicList := make([]string, 0, len(topics))
	for topic := range topics {
		topicList = append(topicList, topic)
	}
	sort.Strings(topicList)
	s.notifier.NotifyRole(ctx, types.RoleInstructor, realtime.SSEEventQuestionBankGrew, map[string]any{
		"created": len(rows),
		"topics":  topicList,
	})
	return len(rows), nil
}

func buildQuestion(in QuestionInput) (*types.Question, error) {
	topic := strings.TrimSpace(strings.ToLower(in.Topic))
	text := strings.TrimSpace(in.QuestionText)
	answer := strings.TrimSpace(in.CorrectAnswer)
	if topic == "" || text == "" || answer == "" {
		return nil, fmt.Errorf("%w: topic, question_text and correct_answer required", pkgerrors.ErrInvalidArgument)
	}
	if len(in.Options) < 2 {
		return nil, fmt.Errorf("%w: at least two options required", pkgerrors.ErrInvalidArgument)
	}
	difficulty := strings.TrimSpace(strings.ToLower(in.Difficulty))
	switch difficulty {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard:
	case "":
		difficulty = types.DifficultyMedium
	default:
		return nil, fmt.Errorf("%w: unknown difficulty %q", pkgerrors.ErrInvalidArgument, in.Difficulty)
	}

	optsJSON, err := json.Marshal(in.Options)
	if err != nil {
		return nil, err
	}
	return &types.Question{
		ID:            uuid.New(),
		Topic:         topic,
		QuestionText:  text,
		CorrectAnswer: answer,
		Options:       datatypes.JSON(optsJSON),
		Difficulty:    difficulty,
		Source:        "seed",
	}, nil
}
