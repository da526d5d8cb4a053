package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/quizforge-backend/internal/handlers"
	"github.com/yungbote/quizforge-backend/internal/middleware"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type RouterConfig struct {
	ServiceName      string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	UserHandler      *handlers.UserHandler
	QuizHandler      *handlers.QuizHandler
	DashboardHandler *handlers.DashboardHandler
	QuestionHandler  *handlers.QuestionHandler
	ChatHandler      *handlers.ChatHandler
	DocumentHandler  *handlers.DocumentHandler
	VoiceHandler     *handlers.VoiceHandler
	SSEHandler       *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Quiz
	protected.GET("/quiz", cfg.QuizHandler.GetQuiz)
	protected.GET("/quiz/from-document/:id", cfg.QuizHandler.GetQuizFromDocument)
	protected.POST("/quiz/submit", cfg.QuizHandler.SubmitQuiz)
	// Dashboard
	protected.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
	// Chat
	protected.POST("/chat", cfg.ChatHandler.Ask)
	// Documents
	protected.POST("/documents", cfg.DocumentHandler.Create)
	protected.GET("/documents", cfg.DocumentHandler.List)
	// Voice
	protected.POST("/voice/transcribe", cfg.VoiceHandler.Transcribe)

	// Question administration
	admin := router.Group("/api")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(types.RoleInstructor, types.RoleAdmin))
	admin.POST("/questions", cfg.QuestionHandler.Create)

	// SSE
	sse := router.Group("/sse")
	sse.Use(cfg.AuthMiddleware.RequireAuth())
	sse.GET("/stream", cfg.SSEHandler.Stream)

	return router
}
