package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wari-app/wari/internal/testutil"
)

type userRow struct {
	ID       uint `gorm:"primaryKey"`
	Username string
	Role     string
	IsActive bool
}

func (userRow) TableName() string { return "users" }

func authEngine(t *testing.T, withUsers bool) *gin.Engine {
	t.Helper()
	var models []interface{}
	if withUsers {
		models = append(models, &userRow{})
	}
	db := testutil.SetupTestDB(t, models...)
	if withUsers {
		db.Create(&userRow{ID: 1, Username: "active", Role: "editor", IsActive: true})
		db.Create(&userRow{ID: 2, Username: "dormant", Role: "editor", IsActive: false})
	}

	r := testutil.NewEngine()
	r.GET("/me", AuthMiddleware(testutil.AccessSecret, db, testutil.Logger()), func(c *gin.Context) {
		caller, _ := CallerFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": caller.Username})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := authEngine(t, true)

	tests := []struct {
		name   string
		bearer string
		code   int
	}{
		{"active user", testutil.AccessToken(t, 1, "editor"), http.StatusOK},
		{"inactive user", testutil.AccessToken(t, 2, "editor"), http.StatusUnauthorized},
		{"unknown user", testutil.AccessToken(t, 99, "editor"), http.StatusUnauthorized},
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Request(t, r, http.MethodGet, "/me", nil, tt.bearer)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestAuthMiddlewareStorageFailure(t *testing.T) {
	// No users table: the lookup fails for a reason other than a missing row.
	r := authEngine(t, false)

	rec := testutil.Request(t, r, http.MethodGet, "/me", nil, testutil.AccessToken(t, 1, "editor"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env := testutil.Decode(t, rec, nil); env.Status != "fail" {
		t.Errorf("envelope status = %q", env.Status)
	}
}
