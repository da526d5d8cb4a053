package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/platform/openai"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

const (
	chatContextMessages = 10
	chatCallTimeout     = 30 * time.Second
	chatFallbackReply   = "I'm having trouble responding right now. Please try again in a moment."
)

const chatSystemPrompt = "You are a patient tutor on a learning platform. " +
	"Answer the student's questions clearly and encourage them to reason through problems."

type ChatService interface {
	Ask(ctx context.Context, userID uuid.UUID, message string) (string, error)
}

type chatService struct {
	db        *gorm.DB
	log       *logger.Logger
	chatRepo  repos.ChatMessageRepo
	aiLogRepo repos.AIInteractionRepo
	ai        openai.Client
	notifier  NotifierService
}

func NewChatService(db *gorm.DB, log *logger.Logger, chatRepo repos.ChatMessageRepo, aiLogRepo repos.AIInteractionRepo, ai openai.Client, notifier NotifierService) ChatService {
	serviceLog := log.With("service", "ChatService")
	return &chatService{
		db:        db,
		log:       serviceLog,
		chatRepo:  chatRepo,
		aiLogRepo: aiLogRepo,
		ai:        ai,
		notifier:  notifier,
	}
}

// Ask stores the user message, prompts the model with the recent
// conversation, and stores the reply. A failed AI call degrades to a
// canned reply rather than an error.
func (s *chatService) Ask(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", pkgerrors.ErrInvalidArgument)
	}

	// Context is loaded before the insert so the new message appears in
	// the prompt once, as the trailing STUDENT line.
	recent, err := s.chatRepo.GetRecentByUserID(ctx, nil, userID, chatContextMessages)
	if err != nil {
		s.log.Warn("Chat context load failed, prompting with latest message only", "error", err)
		recent = nil
	}

	if _, err := s.chatRepo.Create(ctx, nil, []*types.ChatMessage{{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      types.ChatRoleUser,
		Content:   message,
		CreatedAt: time.Now().UTC(),
	}}); err != nil {
		return "", fmt.Errorf("store user message: %w", err)
	}

	prompt := buildChatPrompt(recent, message)

	callCtx, cancel := context.WithTimeout(ctx, chatCallTimeout)
	defer cancel()

	started := time.Now()
	reply, aiErr := s.ai.GenerateText(callCtx, chatSystemPrompt, prompt)
	if aiErr != nil {
		s.log.Warn("Chat AI call failed, using fallback reply", "error", aiErr)
		reply = chatFallbackReply
	}
	s.logInteraction(ctx, userID, prompt, reply, time.Since(started), aiErr)

	if _, err := s.chatRepo.Create(ctx, nil, []*types.ChatMessage{{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      types.ChatRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}}); err != nil {
		return "", fmt.Errorf("store assistant message: %w", err)
	}

	s.notifier.NotifyUser(ctx, userID, realtime.SSEEventChatReply, map[string]any{
		"preview": truncateText(reply, 120),
	})
	return reply, nil
}

func buildChatPrompt(recent []*types.ChatMessage, latest string) string {
	var sb strings.Builder
	if len(recent) > 0 {
		sb.WriteString("CONVERSATION SO FAR:\n")
		for _, msg := range recent {
			if msg == nil {
				continue
			}
			sb.WriteString(msg.Role)
			sb.WriteString(": ")
			sb.WriteString(truncateText(msg.Content, synthMessageMaxChars))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("STUDENT: ")
	sb.WriteString(latest)
	return sb.String()
}

func (s *chatService) logInteraction(ctx context.Context, userID uuid.UUID, prompt, response string, elapsed time.Duration, aiErr error) {
	meta := map[string]any{"ok": aiErr == nil}
	if aiErr != nil {
		meta["error"] = aiErr.Error()
	}
	raw, _ := json.Marshal(meta)
	if _, err := s.aiLogRepo.Create(ctx, nil, []*types.AIInteraction{{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       "chat",
		Prompt:     truncateText(prompt, 4000),
		Response:   truncateText(response, 4000),
		Metadata:   datatypes.JSON(raw),
		DurationMS: elapsed.Milliseconds(),
	}}); err != nil {
		s.log.Warn("AI interaction log write failed", "error", err)
	}
}
