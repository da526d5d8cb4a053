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

type DocumentHandler struct {
	log    *logger.Logger
	docSvc services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, docSvc services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		log:    log.With("handler", "DocumentHandler"),
		docSvc: docSvc,
	}
}

// POST /api/documents
// Accepts already-extracted text; PDF extraction happens upstream.
func (h *DocumentHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	var req struct {
		Filename string `json:"filename" binding:"required"`
		Text     string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.docSvc.CreateFromText(c.Request.Context(), rd.UserID, req.Filename, req.Text)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		RespondError(c, status, "document_failed", err)
		return
	}
	RespondOK(c, doc)
}

// GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	docs, err := h.docSvc.ListForUser(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "document_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}
