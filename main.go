package main

import (
	"log"

	"github.com/sirupsen/logrus"

	"github.com/wari-app/wari/config"
	_ "github.com/wari-app/wari/docs"
	"github.com/wari-app/wari/internal/database"
	"github.com/wari-app/wari/routes"
)

// @title Wari REST API
// @version 1.0
// @description Lottery games, predictions, programs and results. Admin routes need a bearer access token from /api/token.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	if err := database.Migrate(config.DB); err != nil {
		config.Log.WithError(err).Fatal("AutoMigrate failed")
	}
	config.Log.Info("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg, config.Log)

	config.Log.WithFields(logrus.Fields{"port": cfg.App.Port, "env": cfg.App.Env}).Info("starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		config.Log.WithError(err).Fatal("Failed to run server")
	}
}
