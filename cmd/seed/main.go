package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/quizforge-backend/internal/db"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/services"
	"github.com/yungbote/quizforge-backend/internal/types"
	"github.com/yungbote/quizforge-backend/internal/utils"
)

type seedFile struct {
	Questions []services.QuestionInput `yaml:"questions"`
}

// Loads the question bank fixture into postgres. Safe to run repeatedly:
// it refuses to seed when the bank already has rows.
func main() {
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

	path := utils.GetEnv("SEED_FILE", "scripts/seed_questions.yaml", log)
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read seed file", "path", path, "error", err)
		os.Exit(1)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Error("Failed to parse seed file", "path", path, "error", err)
		os.Exit(1)
	}
	if len(file.Questions) == 0 {
		log.Error("Seed file contains no questions", "path", path)
		os.Exit(1)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	var existing int64
	if err := thePG.Model(&types.Question{}).Count(&existing).Error; err != nil {
		log.Error("Failed to count existing questions", "error", err)
		os.Exit(1)
	}
	if existing > 0 {
		log.Info("Question bank already seeded, nothing to do", "existing", existing)
		return
	}

	questionRepo := repos.NewQuestionRepo(thePG, log)
	notifierService := services.NewNotifierService(log, realtime.NewSSEHub(log), nil)
	questionService := services.NewQuestionService(thePG, log, questionRepo, notifierService)

	created, err := questionService.CreateBatch(context.Background(), file.Questions)
	if err != nil {
		log.Error("Failed to seed questions", "error", err)
		os.Exit(1)
	}
	log.Info("Seeded question bank", "created", created, "path", path)
}
