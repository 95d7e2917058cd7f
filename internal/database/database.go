// Package database owns the schema: every persisted model and its migration
// order.
package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/gametype"
	"github.com/wari-app/wari/internal/prediction"
	"github.com/wari-app/wari/internal/program"
	"github.com/wari-app/wari/internal/result"
	"github.com/wari-app/wari/internal/user"
)

// Models lists parents before children.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&country.Country{},
		&gametype.GameType{},
		&game.Game{},
		&prediction.Prediction{},
		&program.Program{},
		&result.Result{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
