package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/services"
)

// voiceMaxUploadBytes caps voice clips; the sync speech API only handles
// short audio anyway.
const voiceMaxUploadBytes = 10 << 20

type VoiceHandler struct {
	log      *logger.Logger
	voiceSvc services.VoiceService
}

func NewVoiceHandler(log *logger.Logger, voiceSvc services.VoiceService) *VoiceHandler {
	return &VoiceHandler{
		log:      log.With("handler", "VoiceHandler"),
		voiceSvc: voiceSvc,
	}
}

// POST /api/voice/transcribe  (multipart field "audio")
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if fileHeader.Size > voiceMaxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "audio_too_large", pkgerrors.ErrInvalidArgument)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	text, err := h.voiceSvc.Transcribe(c.Request.Context(), audio, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "transcription_failed", err)
		return
	}
	RespondOK(c, gin.H{"text": text})
}
