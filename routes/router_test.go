package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wari-app/wari/internal/database"
	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/internal/testutil/apitest"
	"github.com/wari-app/wari/routes"
)

func TestHealthAndNotFound(t *testing.T) {
	e := apitest.New(t)

	rec := e.Do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
	rec = e.Do(t, http.MethodGet, "/api/nowhere", nil, "")
	if env := testutil.Decode(t, rec, nil); rec.Code != http.StatusNotFound || env.Status != "error" {
		t.Errorf("unknown route: status %d, %+v", rec.Code, env)
	}
}

func TestFamilies(t *testing.T) {
	e := apitest.New(t)
	e.World(t)

	tests := []struct {
		name, path, token string
		code              int
	}{
		{"admin needs a token", "/api/admin/games", "", http.StatusUnauthorized},
		{"admin rejects garbage", "/api/admin/games", "garbage", http.StatusUnauthorized},
		{"viewer reads admin lists", "/api/admin/games", e.ViewerToken, http.StatusOK},
		{"client is anonymous", "/api/client/games", "", http.StatusOK},
		{"client predictions", "/api/client/predictions", "", http.StatusOK},
		{"client programs", "/api/client/programs", "", http.StatusOK},
		{"client results", "/api/client/results", "", http.StatusOK},
		{"client has no countries", "/api/client/countries", "", http.StatusNotFound},
		{"pprof is off by default", "/api/admin/debug/pprof/", e.AdminToken, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := e.Do(t, http.MethodGet, tt.path, nil, tt.token); rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestPprofIsAdminOnly(t *testing.T) {
	e := apitest.New(t)
	cfg := testutil.TestConfig()
	cfg.App.EnablePprof = true
	r := routes.SetupRoutes(e.DB, cfg, testutil.Logger())

	if rec := testutil.Request(t, r, http.MethodGet, "/api/admin/debug/pprof/", nil, e.ViewerToken); rec.Code != http.StatusForbidden {
		t.Errorf("viewer pprof status = %d", rec.Code)
	}
	if rec := testutil.Request(t, r, http.MethodGet, "/api/admin/debug/pprof/", nil, e.AdminToken); rec.Code != http.StatusOK {
		t.Errorf("admin pprof status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	db := testutil.SetupTestDB(t, database.Models()...)
	cfg := testutil.TestConfig()
	cfg.App.AllowedOrigins = "https://wari.example"
	r := routes.SetupRoutes(db, cfg, testutil.Logger())

	req := httptest.NewRequest(http.MethodOptions, "/api/client/games", nil)
	req.Header.Set("Origin", "https://wari.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://wari.example" {
		t.Errorf("allow origin = %q", got)
	}
}
