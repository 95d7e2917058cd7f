// Package testutil builds throwaway databases and tokens for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/pkg/token"
	"github.com/wari-app/wari/pkg/validator"
)

// AccessSecret signs tokens in tests.
const AccessSecret = "test-access-secret"

// RefreshSecret signs refresh tokens in tests.
const RefreshSecret = "test-refresh-secret"

// SetupTestDB opens a private in-memory SQLite database and migrates the
// given models into it. The database disappears when the test ends.
func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), config.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// An in-memory database lives on a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("Failed to migrate test database: %v", err)
		}
	}
	return db
}

// TestConfig returns a config wired with the test secrets.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.AccessTokenSecret = AccessSecret
	cfg.JWT.AccessTokenExpiryMinutes = 15
	cfg.JWT.RefreshTokenSecret = RefreshSecret
	cfg.JWT.RefreshTokenExpiryDays = 1
	return cfg
}

// Logger discards everything.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// AccessToken signs an access token for userID.
func AccessToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := token.GenerateJWT(userID, role, token.TypeAccess, AccessSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tok
}

// NewEngine returns a gin engine in test mode with the custom binding tags
// registered.
func NewEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Register()
	return gin.New()
}

// Request performs a JSON request against h. body may be nil; bearer may be
// empty for anonymous calls.
func Request(t *testing.T, h http.Handler, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Envelope is the decoded shape of every API response.
type Envelope struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Code       int               `json:"code"`
	Data       json.RawMessage   `json:"data"`
	Errors     map[string]string `json:"errors"`
	Pagination struct {
		TotalItems  int64 `json:"total_items"`
		TotalPages  int   `json:"total_pages"`
		CurrentPage int   `json:"current_page"`
		PageSize    int   `json:"page_size"`
	} `json:"pagination"`
}

// Decode parses the response envelope and, when out is non-nil, its data.
func Decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("Failed to decode data %s: %v", env.Data, err)
		}
	}
	return env
}
