// Package apitest runs the full router against an in-memory database with
// one user per role already in place.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/database"
	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/gametype"
	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/routes"
	"github.com/wari-app/wari/utils"
)

// Password of every fixture user.
const Password = "password123"

var (
	hashOnce sync.Once
	hash     string
)

type Env struct {
	DB     *gorm.DB
	Router http.Handler

	Admin, Editor, Viewer                *user.User
	AdminToken, EditorToken, ViewerToken string
}

func New(t *testing.T) *Env {
	t.Helper()

	db := testutil.SetupTestDB(t, database.Models()...)
	testutil.NewEngine() // test mode and binding tags
	e := &Env{
		DB:     db,
		Router: routes.SetupRoutes(db, testutil.TestConfig(), testutil.Logger()),
	}
	e.Admin = e.CreateUser(t, "admin1", access.RoleAdmin)
	e.Editor = e.CreateUser(t, "editor1", access.RoleEditor)
	e.Viewer = e.CreateUser(t, "viewer1", access.RoleViewer)
	e.AdminToken = e.Token(t, e.Admin)
	e.EditorToken = e.Token(t, e.Editor)
	e.ViewerToken = e.Token(t, e.Viewer)
	return e
}

func (e *Env) Do(t *testing.T, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Request(t, e.Router, method, path, body, bearer)
}

func (e *Env) Token(t *testing.T, u *user.User) string {
	return testutil.AccessToken(t, u.ID, string(u.Role))
}

func (e *Env) CreateUser(t *testing.T, username string, role access.Role) *user.User {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		if hash, err = utils.HashPassword(Password); err != nil {
			panic(err)
		}
	})
	u := &user.User{Username: username, Email: username + "@example.com", Password: hash, Role: role, IsActive: true}
	if err := e.DB.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (e *Env) CreateCountry(t *testing.T, name, code string) *country.Country {
	t.Helper()
	c := &country.Country{Name: name, Code: code}
	if err := e.DB.Create(c).Error; err != nil {
		t.Fatalf("create country %s: %v", name, err)
	}
	return c
}

func (e *Env) CreateGameType(t *testing.T, name string) *gametype.GameType {
	t.Helper()
	g := &gametype.GameType{Name: name}
	if err := e.DB.Create(g).Error; err != nil {
		t.Fatalf("create game type %s: %v", name, err)
	}
	return g
}

func (e *Env) CreateGame(t *testing.T, name string, c *country.Country, gt *gametype.GameType, active bool) *game.Game {
	t.Helper()
	g := &game.Game{Name: name, Country: c, CountryID: c.ID, GameTypeID: gt.ID, IsActive: active}
	if err := e.DB.Omit("Country", "GameType").Create(g).Error; err != nil {
		t.Fatalf("create game %s: %v", name, err)
	}
	return g
}

// World is a small catalogue most annotation tests start from.
type World struct {
	France, Senegal *country.Country
	Loto, Football  *gametype.GameType
	Classique       *game.Game // active, France, loto
	Dakar           *game.Game // active, Senegal, football
	Dormant         *game.Game // inactive, France, football
}

func (e *Env) World(t *testing.T) *World {
	t.Helper()
	w := &World{}
	w.France = e.CreateCountry(t, "france", "fra")
	w.Senegal = e.CreateCountry(t, "senegal", "SEN")
	w.Loto = e.CreateGameType(t, "loto")
	w.Football = e.CreateGameType(t, "football")
	w.Classique = e.CreateGame(t, "le classique", w.France, w.Loto, true)
	w.Dakar = e.CreateGame(t, "dakar derby", w.Senegal, w.Football, true)
	w.Dormant = e.CreateGame(t, "old draw", w.France, w.Football, false)
	return w
}

// Path formats a route under /api.
func Path(format string, args ...interface{}) string {
	return "/api" + fmt.Sprintf(format, args...)
}

// Future is a whole second well ahead of now, in UTC.
func Future(days int) time.Time {
	return time.Now().UTC().Truncate(time.Second).AddDate(0, 0, days)
}

// Past is a whole second well before now, in UTC.
func Past(days int) time.Time {
	return time.Now().UTC().Truncate(time.Second).AddDate(0, 0, -days)
}
