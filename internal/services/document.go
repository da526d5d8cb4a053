package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/platform/openai"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/types"
)

const (
	documentTextMaxChars    = 6000
	documentSummaryFallback = 500
	documentCallTimeout     = 30 * time.Second
)

const documentSystemPrompt = "You summarize study documents for a learning platform. " +
	"Write a dense summary of the key concepts in at most 300 words."

type DocumentService interface {
	CreateFromText(ctx context.Context, userID uuid.UUID, filename, text string) (*types.StudyDocument, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.StudyDocument, error)
}

type documentService struct {
	db           *gorm.DB
	log          *logger.Logger
	documentRepo repos.StudyDocumentRepo
	ai           openai.Client
	notifier     NotifierService
}

func NewDocumentService(db *gorm.DB, log *logger.Logger, documentRepo repos.StudyDocumentRepo, ai openai.Client, notifier NotifierService) DocumentService {
	serviceLog := log.With("service", "DocumentService")
	return &documentService{
		db:           db,
		log:          serviceLog,
		documentRepo: documentRepo,
		ai:           ai,
		notifier:     notifier,
	}
}

// CreateFromText stores an already-extracted document text with an AI
// summary. Summarization is best-effort: on failure the summary falls
// back to a text prefix.
func (s *documentService) CreateFromText(ctx context.Context, userID uuid.UUID, filename, text string) (*types.StudyDocument, error) {
	filename = strings.TrimSpace(filename)
	text = strings.TrimSpace(text)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename required", pkgerrors.ErrInvalidArgument)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: document text required", pkgerrors.ErrInvalidArgument)
	}

	summary := s.summarize(ctx, text)

	doc := &types.StudyDocument{
		ID:       uuid.New(),
		UserID:   userID,
		Filename: filename,
		Text:     text,
		Summary:  summary,
	}
	if _, err := s.documentRepo.Create(ctx, nil, []*types.StudyDocument{doc}); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	s.notifier.NotifyUser(ctx, userID, realtime.SSEEventDocumentSummarized, map[string]any{
		"document_id": doc.ID,
		"filename":    doc.Filename,
	})
	return doc, nil
}

func (s *documentService) summarize(ctx context.Context, text string) string {
	callCtx, cancel := context.WithTimeout(ctx, documentCallTimeout)
	defer cancel()

	summary, err := s.ai.GenerateText(callCtx, documentSystemPrompt, truncateText(text, documentTextMaxChars))
	if err != nil {
		s.log.Warn("Document summarization failed, using prefix fallback", "error", err)
		return truncateText(text, documentSummaryFallback)
	}
	return strings.TrimSpace(summary)
}

func (s *documentService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.StudyDocument, error) {
	return s.documentRepo.GetByUserID(ctx, nil, userID)
}
