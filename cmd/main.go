package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/quizforge-backend/internal/clients/gcp"
	"github.com/yungbote/quizforge-backend/internal/db"
	"github.com/yungbote/quizforge-backend/internal/handlers"
	"github.com/yungbote/quizforge-backend/internal/middleware"
	"github.com/yungbote/quizforge-backend/internal/observability"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/platform/openai"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/realtime/bus"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/server"
	"github.com/yungbote/quizforge-backend/internal/services"
	"github.com/yungbote/quizforge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	serviceName := utils.GetEnv("SERVICE_NAME", "quizforge-backend", log)

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	attemptRepo := repos.NewAttemptRepo(thePG, log)
	topicProgressRepo := repos.NewTopicProgressRepo(thePG, log)
	userStreakRepo := repos.NewUserStreakRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	chatMessageRepo := repos.NewChatMessageRepo(thePG, log)
	studyDocumentRepo := repos.NewStudyDocumentRepo(thePG, log)
	aiInteractionRepo := repos.NewAIInteractionRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := realtime.NewSSEHub(log)
	notificationBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, notifications stay in-process", "error", err)
		notificationBus = nil
	} else {
		if fErr := notificationBus.StartForwarder(context.Background(), sseHub.Broadcast); fErr != nil {
			log.Warn("Redis forwarder failed to start, notifications stay in-process", "error", fErr)
			_ = notificationBus.Close()
			notificationBus = nil
		}
	}

	// External clients
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("OpenAI client unavailable, AI features degrade to fallbacks", "error", err)
		openaiClient = openai.Unavailable()
	}
	speechClient, err := gcp.NewSpeech(log)
	if err != nil {
		log.Warn("Speech client unavailable, voice transcription disabled", "error", err)
		speechClient = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	notifierService := services.NewNotifierService(log, sseHub, notificationBus)
	performanceService := services.NewPerformanceService(thePG, log, attemptRepo)
	synthesizerService := services.NewSynthesizerService(log, openaiClient)
	quizService := services.NewQuizService(
		thePG,
		log,
		questionRepo,
		attemptRepo,
		topicProgressRepo,
		userStreakRepo,
		achievementRepo,
		studyDocumentRepo,
		chatMessageRepo,
		performanceService,
		synthesizerService,
		notifierService,
	)
	dashboardService := services.NewDashboardService(thePG, log, attemptRepo, userStreakRepo, achievementRepo)
	questionService := services.NewQuestionService(thePG, log, questionRepo, notifierService)
	chatService := services.NewChatService(thePG, log, chatMessageRepo, aiInteractionRepo, openaiClient, notifierService)
	documentService := services.NewDocumentService(thePG, log, studyDocumentRepo, openaiClient, notifierService)
	voiceService := services.NewVoiceService(log, speechClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	userHandler := handlers.NewUserHandler(userService)
	quizHandler := handlers.NewQuizHandler(log, quizService)
	dashboardHandler := handlers.NewDashboardHandler(log, dashboardService)
	questionHandler := handlers.NewQuestionHandler(log, questionService)
	chatHandler := handlers.NewChatHandler(log, chatService)
	documentHandler := handlers.NewDocumentHandler(log, documentService)
	voiceHandler := handlers.NewVoiceHandler(log, voiceService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:      serviceName,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		UserHandler:      userHandler,
		QuizHandler:      quizHandler,
		DashboardHandler: dashboardHandler,
		QuestionHandler:  questionHandler,
		ChatHandler:      chatHandler,
		DocumentHandler:  documentHandler,
		VoiceHandler:     voiceHandler,
		SSEHandler:       sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
