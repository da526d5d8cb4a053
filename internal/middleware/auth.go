package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/quizforge-backend/internal/handlers"
	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	mwLog := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: mwLog, authService: authService}
}

// RequireAuth resolves the access token from the Authorization header or,
// for EventSource connections that cannot set headers, the token query
// parameter. On success the request context carries the caller's
// RequestData.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			handlers.RespondError(c, http.StatusUnauthorized, "missing_token", pkgerrors.ErrUnauthorized)
			c.Abort()
			return
		}
		ctx, err := m.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			m.log.Debug("Rejected access token", "error", err)
			handlers.RespondError(c, http.StatusUnauthorized, "invalid_token", pkgerrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil {
			handlers.RespondError(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
			c.Abort()
			return
		}
		for _, role := range roles {
			if rd.Role == role {
				c.Next()
				return
			}
		}
		handlers.RespondError(c, http.StatusForbidden, "forbidden", pkgerrors.ErrUnauthorized)
		c.Abort()
	}
}

func extractToken(c *gin.Context) string {
	if qt := strings.TrimSpace(c.Query("token")); qt != "" {
		return qt
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
