package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
)

type SSEHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewSSEHandler(log *logger.Logger, hub *realtime.SSEHub) *SSEHandler {
	handlerLog := log.With("handler", "SSEHandler")
	return &SSEHandler{log: handlerLog, hub: hub}
}

// GET /sse/stream
//
// Subscribes the caller to its personal channel plus its role channel and
// holds the connection open until the client disconnects.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, realtime.UserChannel(rd.UserID.String()))
	if rd.Role != "" {
		h.hub.AddChannel(client, realtime.RoleChannel(rd.Role))
	}
	defer h.hub.CloseClient(client)

	h.log.Debug("SSE stream opened", "userID", rd.UserID, "clientID", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
