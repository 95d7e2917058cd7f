// Package seed fills a database with demo data. Rows are looked up by their
// natural key first, so running it again reuses what is already there.
package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/gametype"
	"github.com/wari-app/wari/internal/prediction"
	"github.com/wari-app/wari/internal/program"
	"github.com/wari-app/wari/internal/result"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/utils"
)

type Options struct {
	Password string `env:"SEED_PASSWORD" envDefault:"password123"`
}

// Summary counts the rows created by one run.
type Summary struct {
	Users       int
	Countries   int
	GameTypes   int
	Games       int
	Predictions int
	Programs    int
	Results     int
}

func (s Summary) Fields() logrus.Fields {
	return logrus.Fields{
		"users": s.Users, "countries": s.Countries, "game_types": s.GameTypes,
		"games": s.Games, "predictions": s.Predictions, "programs": s.Programs, "results": s.Results,
	}
}

type seeder struct {
	tx      *gorm.DB
	log     logrus.FieldLogger
	now     time.Time
	summary Summary
}

// Run seeds everything in one transaction.
func Run(db *gorm.DB, log logrus.FieldLogger, opts Options) (Summary, error) {
	if opts.Password == "" {
		return Summary{}, fmt.Errorf("seed password must not be empty")
	}
	hash, err := utils.HashPassword(opts.Password)
	if err != nil {
		return Summary{}, fmt.Errorf("hash seed password: %w", err)
	}

	s := &seeder{log: log, now: time.Now().UTC()}
	err = db.Transaction(func(tx *gorm.DB) error {
		s.tx = tx
		return s.run(hash)
	})
	return s.summary, err
}

func (s *seeder) run(passwordHash string) error {
	users := map[string]*user.User{}
	for _, u := range []user.User{
		{Username: "admin1", Email: "admin1@example.com", Role: access.RoleAdmin},
		{Username: "editor1", Email: "editor1@example.com", Role: access.RoleEditor},
		{Username: "viewer1", Email: "viewer1@example.com", Role: access.RoleViewer},
	} {
		u.Password, u.IsActive = passwordHash, true
		row, err := s.user(u)
		if err != nil {
			return err
		}
		users[row.Username] = row
	}

	countries := map[string]*country.Country{}
	for _, c := range []country.Country{
		{Name: "Ivory Coast", Code: "CIV"},
		{Name: "Sénégal", Code: "SEN"},
		{Name: "France", Code: "FRA"},
		{Name: "Bénin", Code: "BEN"},
	} {
		row, err := s.country(c)
		if err != nil {
			return err
		}
		countries[row.Code] = row
	}

	types := map[string]*gametype.GameType{}
	for _, t := range []gametype.GameType{
		{Name: "Loto", Description: "Number draws."},
		{Name: "Football", Description: "Match outcomes."},
		{Name: "Pmu", Description: "Horse racing."},
	} {
		row, err := s.gameType(t)
		if err != nil {
			return err
		}
		types[row.Slug] = row
	}

	games := map[string]*game.Game{}
	for _, g := range []struct {
		name, code, kind string
		active           bool
	}{
		{"Loto Bonheur", "CIV", "loto", true},
		{"Lonase Tirage", "SEN", "loto", true},
		{"Quinte Plus", "FRA", "pmu", true},
		{"Derby Cotonou", "BEN", "football", false},
	} {
		row, err := s.game(game.Game{
			Name:        g.name,
			Country:     countries[g.code],
			CountryID:   countries[g.code].ID,
			GameTypeID:  types[g.kind].ID,
			IsActive:    g.active,
			Description: "Demo game " + g.name + ".",
		})
		if err != nil {
			return err
		}
		games[row.Slug] = row
	}
	loto, lonase, quinte := games["loto-bonheur-civ"], games["lonase-tirage-sen"], games["quinte-plus-fra"]

	editor := users["editor1"]
	for _, p := range []prediction.Prediction{
		{GameID: loto.ID, AuthorID: &editor.ID, Description: "Numbers 7, 12 and 23 look strong tonight.", IsPublished: true, PredictedAt: s.now.AddDate(0, 0, -2)},
		{GameID: lonase.ID, AuthorID: &editor.ID, Description: "Expect a low draw, mostly under 30.", IsPublished: true, PredictedAt: s.now.AddDate(0, 0, -1)},
		{GameID: quinte.ID, AuthorID: &editor.ID, Description: "Favourite in lane four, outsider in lane nine.", PredictedAt: s.now.AddDate(0, 0, -3)},
	} {
		if err := s.prediction(p); err != nil {
			return err
		}
	}

	day := s.now.Truncate(24 * time.Hour)
	for _, p := range []program.Program{
		{GameID: loto.ID, EventDate: day.AddDate(0, 0, 1).Add(18 * time.Hour), Details: "Evening draw, jackpot rollover.", IsPublished: true},
		{GameID: lonase.ID, EventDate: day.AddDate(0, 0, 2).Add(20 * time.Hour), Details: "Weekly national draw.", IsPublished: true},
		{GameID: quinte.ID, EventDate: day.AddDate(0, 0, 3).Add(13*time.Hour + 30*time.Minute), Details: "Sixteen runners, 2400 metres."},
	} {
		if err := s.program(p); err != nil {
			return err
		}
	}

	admin := users["admin1"]
	for _, r := range []result.Result{
		{GameID: loto.ID, ResultDate: time.Date(2025, 3, 23, 18, 0, 0, 0, time.UTC), Outcome: "7-12-23-34-45",
			OutcomeDetails: datatypes.JSONMap{"numbers": []int{7, 12, 23, 34, 45}}, Status: result.StatusOfficial, ValidatedByID: &admin.ID},
		{GameID: lonase.ID, ResultDate: time.Date(2025, 3, 24, 20, 0, 0, 0, time.UTC), Outcome: "3-9-17-28-41",
			Status: result.StatusDisputed},
		{GameID: quinte.ID, ResultDate: time.Date(2025, 3, 25, 13, 30, 0, 0, time.UTC), Outcome: "4-9-1-12-7",
			Status: result.StatusPending},
	} {
		if err := s.result(r); err != nil {
			return err
		}
	}
	return nil
}

// firstOrCreate loads the row matching where into dst, or creates dst.
func (s *seeder) firstOrCreate(dst interface{}, counter *int, where string, args ...interface{}) error {
	err := s.tx.Where(where, args...).Take(dst).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := s.tx.Omit(clause.Associations).Create(dst).Error; err != nil {
		return err
	}
	*counter++
	s.log.WithField("model", fmt.Sprintf("%T", dst)).Debug("seeded row")
	return nil
}

func (s *seeder) user(u user.User) (*user.User, error) {
	row := u
	if err := s.firstOrCreate(&row, &s.summary.Users, "username = ?", u.Username); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", u.Username, err)
	}
	return &row, nil
}

func (s *seeder) country(c country.Country) (*country.Country, error) {
	c.Normalize()
	row := c
	if err := s.firstOrCreate(&row, &s.summary.Countries, "code = ?", c.Code); err != nil {
		return nil, fmt.Errorf("seed country %s: %w", c.Code, err)
	}
	return &row, nil
}

func (s *seeder) gameType(t gametype.GameType) (*gametype.GameType, error) {
	t.Normalize()
	row := t
	if err := s.firstOrCreate(&row, &s.summary.GameTypes, "slug = ?", t.Slug); err != nil {
		return nil, fmt.Errorf("seed game type %s: %w", t.Name, err)
	}
	return &row, nil
}

func (s *seeder) game(g game.Game) (*game.Game, error) {
	g.Normalize()
	row := g
	if err := s.firstOrCreate(&row, &s.summary.Games, "slug = ?", g.Slug); err != nil {
		return nil, fmt.Errorf("seed game %s: %w", g.Name, err)
	}
	return &row, nil
}

func (s *seeder) prediction(p prediction.Prediction) error {
	if err := s.firstOrCreate(&p, &s.summary.Predictions, "game_id = ? AND description = ?", p.GameID, p.Description); err != nil {
		return fmt.Errorf("seed prediction: %w", err)
	}
	return nil
}

func (s *seeder) program(p program.Program) error {
	if err := s.firstOrCreate(&p, &s.summary.Programs, "game_id = ? AND details = ?", p.GameID, p.Details); err != nil {
		return fmt.Errorf("seed program: %w", err)
	}
	return nil
}

func (s *seeder) result(r result.Result) error {
	if err := s.firstOrCreate(&r, &s.summary.Results, "game_id = ? AND result_date = ?", r.GameID, r.ResultDate); err != nil {
		return fmt.Errorf("seed result: %w", err)
	}
	return nil
}
