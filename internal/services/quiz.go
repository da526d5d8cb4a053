package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

const (
	questionsPerQuiz = 5
	weakSlotsPct     = 70
)

// defaultWeakTopics substitutes for an empty weak-topic set (cold start).
var defaultWeakTopics = []string{"mathematics", "science", "programming", "general"}

// QuestionView is the quiz-taking projection: no answer key. Grading
// happens server-side at submission time.
type QuestionView struct {
	ID           uuid.UUID `json:"id"`
	Topic        string    `json:"topic"`
	QuestionText string    `json:"question_text"`
	Options      []string  `json:"options"`
	Difficulty   string    `json:"difficulty"`
}

type AnswerSubmission struct {
	QuestionID uuid.UUID `json:"question_id"`
	Answer     string    `json:"answer"`
}

type SubmitResult struct {
	TotalQuestions  int                  `json:"total_questions"`
	CorrectAnswers  int                  `json:"correct_answers"`
	Score           float64              `json:"score"`
	StreakDays      int                  `json:"streak_days"`
	NewAchievements []*types.Achievement `json:"new_achievements"`
}

type QuizService interface {
	GenerateQuiz(ctx context.Context, userID uuid.UUID, difficulty string) ([]QuestionView, error)
	GenerateQuizFromDocument(ctx context.Context, userID, documentID uuid.UUID) ([]QuestionView, error)
	SubmitQuiz(ctx context.Context, userID uuid.UUID, answers []AnswerSubmission) (*SubmitResult, error)
}

type quizService struct {
	db              *gorm.DB
	log             *logger.Logger
	questionRepo    repos.QuestionRepo
	attemptRepo     repos.AttemptRepo
	progressRepo    repos.TopicProgressRepo
	streakRepo      repos.UserStreakRepo
	achievementRepo repos.AchievementRepo
	documentRepo    repos.StudyDocumentRepo
	chatRepo        repos.ChatMessageRepo
	performance     PerformanceService
	synthesizer     SynthesizerService
	notifier        NotifierService
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	questionRepo repos.QuestionRepo,
	attemptRepo repos.AttemptRepo,
	progressRepo repos.TopicProgressRepo,
	streakRepo repos.UserStreakRepo,
	achievementRepo repos.AchievementRepo,
	documentRepo repos.StudyDocumentRepo,
	chatRepo repos.ChatMessageRepo,
	performance PerformanceService,
	synthesizer SynthesizerService,
	notifier NotifierService,
) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{
		db:              db,
		log:             serviceLog,
		questionRepo:    questionRepo,
		attemptRepo:     attemptRepo,
		progressRepo:    progressRepo,
		streakRepo:      streakRepo,
		achievementRepo: achievementRepo,
		documentRepo:    documentRepo,
		chatRepo:        chatRepo,
		performance:     performance,
		synthesizer:     synthesizer,
		notifier:        notifier,
	}
}

// GenerateQuiz composes a quiz of up to questionsPerQuiz questions: 70% of
// slots sampled from the user's weak topics, the rest from the whole pool.
// Any failure in the weak-topic path degrades to pure random sampling.
func (s *quizService) GenerateQuiz(ctx context.Context, userID uuid.UUID, difficulty string) ([]QuestionView, error) {
	weakSlots := questionsPerQuiz * weakSlotsPct / 100

	topics, err := s.performance.WeakTopics(ctx, nil, userID, 3)
	if err != nil {
		s.log.Warn("Weak topic detection failed, falling back to random quiz", "error", err)
		return s.randomQuiz(ctx, difficulty)
	}
	if len(topics) == 0 {
		topics = defaultWeakTopics
	}

	selected, err := s.questionRepo.GetRandomByTopics(ctx, nil, topics, weakSlots, difficulty)
	if err != nil {
		s.log.Warn("Topic sampling failed, falling back to random quiz", "error", err)
		return s.randomQuiz(ctx, difficulty)
	}

	exclude := make([]uuid.UUID, 0, len(selected))
	for _, q := range selected {
		exclude = append(exclude, q.ID)
	}

	rest, err := s.questionRepo.GetRandom(ctx, nil, questionsPerQuiz-len(selected), exclude, difficulty)
	if err != nil {
		s.log.Warn("Random fill failed, returning weak-topic questions only", "error", err)
	} else {
		selected = append(selected, rest...)
	}

	// Package-level Shuffle: handlers run per-goroutine and a shared
	// rand.Rand is not safe for concurrent use.
	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if len(selected) > questionsPerQuiz {
		selected = selected[:questionsPerQuiz]
	}
	return questionViews(selected), nil
}

func (s *quizService) randomQuiz(ctx context.Context, difficulty string) ([]QuestionView, error) {
	questions, err := s.questionRepo.GetRandom(ctx, nil, questionsPerQuiz, nil, difficulty)
	if err != nil {
		s.log.Error("Random quiz sampling failed", "error", err)
		return []QuestionView{}, nil
	}
	return questionViews(questions), nil
}

// GenerateQuizFromDocument feeds the document summary and recent chat into
// the synthesizer and persists accepted questions so they are gradable on
// submission like any other question.
func (s *quizService) GenerateQuizFromDocument(ctx context.Context, userID, documentID uuid.UUID) ([]QuestionView, error) {
	docs, err := s.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if len(docs) == 0 || docs[0].UserID != userID {
		return nil, pkgerrors.ErrNotFound
	}
	doc := docs[0]

	transcript, err := s.chatRepo.GetRecentByUserID(ctx, nil, userID, 10)
	if err != nil {
		s.log.Warn("Chat transcript load failed, generating from summary only", "error", err)
		transcript = nil
	}

	generated := s.synthesizer.GenerateFromContext(ctx, doc.Summary, transcript)

	questions := make([]*types.Question, 0, len(generated))
	for _, g := range generated {
		optsJSON, mErr := json.Marshal(g.Options)
		if mErr != nil {
			continue
		}
		questions = append(questions, &types.Question{
			ID:            uuid.New(),
			Topic:         g.Topic,
			QuestionText:  g.QuestionText,
			CorrectAnswer: g.CorrectAnswer,
			Options:       datatypes.JSON(optsJSON),
			Difficulty:    types.DifficultyMedium,
			Source:        "ai",
		})
	}

	if _, err := s.questionRepo.Create(ctx, nil, questions); err != nil {
		return nil, fmt.Errorf("persist generated questions: %w", err)
	}

	views := questionViews(questions)
	s.notifier.NotifyUser(ctx, userID, realtime.SSEEventQuizReady, map[string]any{
		"document_id": documentID,
		"count":       len(views),
	})
	return views, nil
}

// SubmitQuiz grades and records one submission as a single unit of work:
// attempts, topic progress, streak, and achievement issuance commit
// together or not at all.
func (s *quizService) SubmitQuiz(ctx context.Context, userID uuid.UUID, answers []AnswerSubmission) (*SubmitResult, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", pkgerrors.ErrInvalidArgument)
	}

	result := &SubmitResult{NewAchievements: []*types.Achievement{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		ids := make([]uuid.UUID, 0, len(answers))
		for _, a := range answers {
			ids = append(ids, a.QuestionID)
		}
		questions, qErr := s.questionRepo.GetByIDs(ctx, tx, ids)
		if qErr != nil {
			return fmt.Errorf("load questions: %w", qErr)
		}
		byID := make(map[uuid.UUID]*types.Question, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}

		// The yesterday check must use the pre-submission history.
		hadAttemptYesterday, yErr := s.hadAttemptYesterday(ctx, tx, userID, now)
		if yErr != nil {
			return fmt.Errorf("streak lookback: %w", yErr)
		}

		attempts := make([]*types.QuizAttempt, 0, len(answers))
		correctCount := 0
		type bucket struct{ total, correct int }
		topicBuckets := map[string]*bucket{}

		for _, a := range answers {
			q, known := byID[a.QuestionID]
			isCorrect := known && answersMatch(q.CorrectAnswer, a.Answer)
			attempts = append(attempts, &types.QuizAttempt{
				ID:          uuid.New(),
				UserID:      userID,
				QuestionID:  a.QuestionID,
				IsCorrect:   isCorrect,
				AnswerGiven: a.Answer,
				Timestamp:   now,
			})
			if isCorrect {
				correctCount++
			}
			// Unknown question ids are still recorded as attempts but
			// do not bucket into topic progress.
			if known {
				b, ok := topicBuckets[q.Topic]
				if !ok {
					b = &bucket{}
					topicBuckets[q.Topic] = b
				}
				b.total++
				if isCorrect {
					b.correct++
				}
			}
		}

		if _, aErr := s.attemptRepo.Create(ctx, tx, attempts); aErr != nil {
			return fmt.Errorf("record attempts: %w", aErr)
		}

		for topic, b := range topicBuckets {
			if pErr := s.bumpTopicProgress(ctx, tx, userID, topic, b.total, b.correct, now); pErr != nil {
				return fmt.Errorf("update topic progress: %w", pErr)
			}
		}

		streakDays, sErr := s.updateStreak(ctx, tx, userID, hadAttemptYesterday, now)
		if sErr != nil {
			return fmt.Errorf("update streak: %w", sErr)
		}

		earned, achErr := s.checkAchievements(ctx, tx, userID, correctCount, len(answers), now)
		if achErr != nil {
			return fmt.Errorf("check achievements: %w", achErr)
		}

		result.TotalQuestions = len(answers)
		result.CorrectAnswers = correctCount
		result.Score = float64(correctCount) / float64(len(answers)) * 100
		result.StreakDays = streakDays
		result.NewAchievements = earned
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range result.NewAchievements {
		s.notifier.NotifyUser(ctx, userID, realtime.SSEEventAchievementEarned, a)
	}
	return result, nil
}

func answersMatch(correct, given string) bool {
	return strings.EqualFold(strings.TrimSpace(correct), strings.TrimSpace(given))
}

func questionViews(questions []*types.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		var options []string
		if err := json.Unmarshal(q.Options, &options); err != nil {
			options = []string{}
		}
		views = append(views, QuestionView{
			ID:           q.ID,
			Topic:        q.Topic,
			QuestionText: q.QuestionText,
			Options:      options,
			Difficulty:   q.Difficulty,
		})
	}
	return views
}
