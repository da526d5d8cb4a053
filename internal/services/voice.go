package services

import (
	"context"
	"fmt"

	"github.com/yungbote/quizforge-backend/internal/clients/gcp"
	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
)

type VoiceService interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type voiceService struct {
	log    *logger.Logger
	speech gcp.Speech
}

func NewVoiceService(log *logger.Logger, speech gcp.Speech) VoiceService {
	serviceLog := log.With("service", "VoiceService")
	return &voiceService{log: serviceLog, speech: speech}
}

func (s *voiceService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if s.speech == nil {
		return "", fmt.Errorf("speech client not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", pkgerrors.ErrInvalidArgument)
	}
	result, err := s.speech.TranscribeAudioBytes(ctx, audio, mimeType, gcp.SpeechConfig{
		EnableAutomaticPunctuation: true,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return result.PrimaryText, nil
}
