package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type QuizHandler struct {
	log     *logger.Logger
	quizSvc services.QuizService
}

func NewQuizHandler(log *logger.Logger, quizSvc services.QuizService) *QuizHandler {
	return &QuizHandler{
		log:     log.With("handler", "QuizHandler"),
		quizSvc: quizSvc,
	}
}

// GET /api/quiz?difficulty=
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	questions, err := h.quizSvc.GenerateQuiz(c.Request.Context(), rd.UserID, c.Query("difficulty"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "quiz_generation_failed", err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}

// GET /api/quiz/from-document/:id
func (h *QuizHandler) GetQuizFromDocument(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	questions, err := h.quizSvc.GenerateQuizFromDocument(c.Request.Context(), rd.UserID, docID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pkgerrors.ErrNotFound) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "quiz_generation_failed", err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}

// POST /api/quiz/submit
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	var req struct {
		Answers []services.AnswerSubmission `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.quizSvc.SubmitQuiz(c.Request.Context(), rd.UserID, req.Answers)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		RespondError(c, status, "quiz_submission_failed", err)
		return
	}
	RespondOK(c, result)
}
