package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type ChatHandler struct {
	log     *logger.Logger
	chatSvc services.ChatService
}

func NewChatHandler(log *logger.Logger, chatSvc services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:     log.With("handler", "ChatHandler"),
		chatSvc: chatSvc,
	}
}

// POST /api/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reply, err := h.chatSvc.Ask(c.Request.Context(), rd.UserID, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		RespondError(c, status, "chat_failed", err)
		return
	}
	RespondOK(c, gin.H{"reply": reply})
}
