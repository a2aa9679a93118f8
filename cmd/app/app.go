package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/vansh-khaneja/WearWhat-backend/internal/app"
	config "github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

//	@title						WearWhat API
//	@version					1.0
//	@description				Гардероб, подбор образов и рекомендации по текстовому запросу
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	log := logger.NewSlogLogger()

	// .env нужен только локально, в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to read .env: %v", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
