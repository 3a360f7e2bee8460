package main

import (
	"os"

	"github.com/DRSN-tech/basket-backend/internal/app"
	config "github.com/DRSN-tech/basket-backend/internal/cfg"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
)

//	@title						Basket API
//	@version					1.0
//	@description				Сравнение цен продуктов и корзин по супермаркетам
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	// после загрузки конфигурации логгер пересоздаётся с уровнем и файлом из LOG_*
	log = logger.NewSlogLoggerWithOptions(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
