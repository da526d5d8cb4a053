package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type DashboardHandler struct {
	log          *logger.Logger
	dashboardSvc services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardSvc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:          log.With("handler", "DashboardHandler"),
		dashboardSvc: dashboardSvc,
	}
}

// GET /api/dashboard?range=week|month|year
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
		return
	}
	snapshot, err := h.dashboardSvc.Dashboard(c.Request.Context(), rd.UserID, c.Query("range"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dashboard_failed", err)
		return
	}
	RespondOK(c, snapshot)
}
