package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"` // development|production
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	Timezone string `envconfig:"APP_TIMEZONE" default:"Africa/Lagos"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"` // postgres|sqlite
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"postgres"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/taxclarity.db"`

	JWTSecret   string   `envconfig:"JWT_SECRET"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:8081,http://localhost:19006"`

	RedisAddr    string `envconfig:"REDIS_ADDR"`
	RedisChannel string `envconfig:"REDIS_CHANNEL" default:"checklist-events"`

	OneSignalAppID   string `envconfig:"ONESIGNAL_APP_ID"`
	OneSignalAPIKey  string `envconfig:"ONESIGNAL_REST_API_KEY"`
	OneSignalBaseURL string `envconfig:"ONESIGNAL_BASE_URL" default:"https://onesignal.com"`

	ResendAPIKey    string `envconfig:"RESEND_API_KEY"`
	ResendFromEmail string `envconfig:"RESEND_FROM_EMAIL" default:"TaxClarity NG <onboarding@resend.dev>"`
	ResendBaseURL   string `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com"`

	CronSecret          string        `envconfig:"CRON_SECRET"`
	ReminderEnabled     bool          `envconfig:"REMINDER_ENABLED" default:"false"`
	ReminderHour        int           `envconfig:"REMINDER_HOUR" default:"9"`
	ReminderConcurrency int           `envconfig:"REMINDER_CONCURRENCY" default:"4"`
	HTTPClientTimeout   time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"15s"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"20"`
}

// Load reads configs/.env (if present) and then environment variables into Config.
func Load() (Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load("configs/.env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return cfg, fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", cfg.ReminderHour)
	}
	if cfg.JWTSecret == "" && cfg.IsProduction() {
		return cfg, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default_super_secret_key" // development fallback only
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSslMode
}

// Location resolves the timezone used for calendar-date arithmetic.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
