package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Env            string `env:"APP_ENV"         envDefault:"development"`
		Port           string `env:"PORT"            envDefault:"8088"`
		AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
		EnablePprof    bool   `env:"ENABLE_PPROF"    envDefault:"false"`
	}
	DB struct {
		Driver     string `env:"DB_DRIVER"      envDefault:"postgres"`
		Host       string `env:"DB_HOST"        envDefault:"localhost"`
		Port       string `env:"DB_PORT"        envDefault:"5432"`
		User       string `env:"DB_USER"        envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD"    envDefault:"password"`
		Name       string `env:"DB_NAME"        envDefault:"wari_db"`
		SSLMode    string `env:"DB_SSLMODE"     envDefault:"disable"`
		SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"wari.db"`
	}
	JWT struct {
		AccessTokenSecret        string `env:"JWT_ACCESS_TOKEN_SECRET"         envDefault:"your-very-strong-access-secret"`
		AccessTokenExpiryMinutes int    `env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES" envDefault:"60"`
		RefreshTokenSecret       string `env:"JWT_REFRESH_TOKEN_SECRET"        envDefault:"your-very-strong-refresh-secret"`
		RefreshTokenExpiryDays   int    `env:"JWT_REFRESH_TOKEN_EXPIRY_DAYS"   envDefault:"1"`
	}
	Log struct {
		Level  string `env:"LOG_LEVEL"  envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"text"`
	}
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.App.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

// Log is the application logger, set by Initialize.
var Log *logrus.Logger

var appConfig *Config
var once sync.Once

// LoadConfig reads an optional .env file and then parses the process
// environment into a Config.
func LoadConfig() (*Config, error) {
	// A missing .env is normal in production where variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DB.Driver)
	}
	if cfg.JWT.AccessTokenExpiryMinutes <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY_MINUTES must be positive")
	}
	if cfg.JWT.RefreshTokenExpiryDays <= 0 {
		return nil, fmt.Errorf("JWT_REFRESH_TOKEN_EXPIRY_DAYS must be positive")
	}

	appConfig = cfg
	return cfg, nil
}

// NewLogger builds the application logger from the Log section.
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// GormConfig is shared by the server, the seeder and the tests.
func GormConfig(logMode logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ConnectDB opens the configured database and sets the global DB variable.
func ConnectDB(cfg Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DB.SQLitePath + "?_pragma=foreign_keys(1)")
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.SSLMode,
		)
		dialector = postgres.Open(dsn)
	}

	logMode := logger.Silent
	if cfg.IsDevelopment() {
		logMode = logger.Info
	}

	gormDB, err := gorm.Open(dialector, GormConfig(logMode))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	log.WithField("driver", cfg.DB.Driver).Info("connected to database")
	return gormDB, nil
}

// Initialize loads all configurations, builds the logger and connects to
// the database. Call it once from main.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		Log = NewLogger(loadedCfg)

		if loadedCfg.JWT.AccessTokenSecret == "your-very-strong-access-secret" {
			Log.Warn("using default JWT secrets; set JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET")
		}

		if _, err := ConnectDB(*loadedCfg, Log); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
// It panics if Initialize has not run.
func GetConfig() *Config {
	if appConfig == nil {
		panic("configuration not loaded; call config.Initialize() first")
	}
	return appConfig
}
