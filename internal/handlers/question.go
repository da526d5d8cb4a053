package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type QuestionHandler struct {
	log     *logger.Logger
	service services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, service services.QuestionService) *QuestionHandler {
	handlerLog := log.With("handler", "QuestionHandler")
	return &QuestionHandler{log: handlerLog, service: service}
}

// POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req struct {
		Questions []services.QuestionInput `json:"questions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.service.CreateBatch(c.Request.Context(), req.Questions)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			status = http.StatusBadRequest
		} else {
			h.log.Error("Failed to create questions", "error", err)
		}
		RespondError(c, status, "question_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"created": created})
}
