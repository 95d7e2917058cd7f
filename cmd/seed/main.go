// Command seed fills the configured database with demo data.
package main

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/database"
	"github.com/wari-app/wari/internal/seed"
)

func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	var opts seed.Options
	if err := env.Parse(&opts); err != nil {
		config.Log.WithError(err).Fatal("invalid seed options")
	}

	if err := database.Migrate(config.DB); err != nil {
		config.Log.WithError(err).Fatal("AutoMigrate failed")
	}

	summary, err := seed.Run(config.DB, config.Log, opts)
	if err != nil {
		config.Log.WithError(err).Fatal("seeding failed")
	}
	config.Log.WithFields(summary.Fields()).Info("seeding complete")
}
