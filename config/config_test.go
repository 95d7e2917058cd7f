package config

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, ,http://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.AccessTokenExpiryMinutes != 60 || cfg.JWT.RefreshTokenExpiryDays != 1 {
		t.Errorf("unexpected token lifetimes %+v", cfg.JWT)
	}
	origins := cfg.Origins()
	if len(origins) != 2 || origins[0] != "http://a.example" || origins[1] != "http://b.example" {
		t.Errorf("Origins() = %v", origins)
	}
	if GetConfig() != cfg {
		t.Error("GetConfig should return the loaded config")
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"zero access lifetime", map[string]string{"DB_DRIVER": "sqlite", "JWT_ACCESS_TOKEN_EXPIRY_MINUTES": "0"}},
		{"negative refresh lifetime", map[string]string{"DB_DRIVER": "sqlite", "JWT_REFRESH_TOKEN_EXPIRY_DAYS": "-1"}},
		{"not a number", map[string]string{"DB_DRIVER": "sqlite", "JWT_ACCESS_TOKEN_EXPIRY_MINUTES": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	log := NewLogger(cfg)
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %s, want debug", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", log.Formatter)
	}

	cfg.Log.Level = "nonsense"
	cfg.Log.Format = "text"
	log = NewLogger(cfg)
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("invalid level should fall back to info, got %s", log.GetLevel())
	}
}
