package seed_test

import (
	"testing"

	"github.com/wari-app/wari/internal/database"
	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/result"
	"github.com/wari-app/wari/internal/seed"
	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/utils"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t, database.Models()...)
	log := testutil.Logger()

	first, err := seed.Run(db, log, seed.Options{Password: "seed-secret"})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	want := seed.Summary{Users: 3, Countries: 4, GameTypes: 3, Games: 4, Predictions: 3, Programs: 3, Results: 3}
	if first != want {
		t.Errorf("first run = %+v, want %+v", first, want)
	}

	second, err := seed.Run(db, log, seed.Options{Password: "seed-secret"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != (seed.Summary{}) {
		t.Errorf("second run created rows: %+v", second)
	}

	var admin user.User
	if err := db.Where("username = ?", "admin1").Take(&admin).Error; err != nil {
		t.Fatal(err)
	}
	if !utils.CheckPassword(admin.Password, "seed-secret") {
		t.Errorf("seeded password does not verify")
	}

	var inactive int64
	db.Model(&game.Game{}).Where("is_active = ?", false).Count(&inactive)
	if inactive != 1 {
		t.Errorf("inactive games = %d, want 1", inactive)
	}
	var official result.Result
	if err := db.Where("status = ?", result.StatusOfficial).Take(&official).Error; err != nil {
		t.Fatal(err)
	}
	if official.ValidatedByID == nil || *official.ValidatedByID != admin.ID {
		t.Errorf("official result validator = %v", official.ValidatedByID)
	}
}

func TestRunRejectsEmptyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t, database.Models()...)
	if _, err := seed.Run(db, testutil.Logger(), seed.Options{}); err == nil {
		t.Error("expected an error for an empty password")
	}
}
