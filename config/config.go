// config/config.go
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the whole runtime configuration, read from the environment.
type Config struct {
	Port           string   `env:"PORT" envDefault:"5000"`
	Env            string   `env:"APP_ENV" envDefault:"production"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`

	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	MaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns   int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	HealthInterval time.Duration `env:"HEALTH_INTERVAL" envDefault:"30s"`

	CaptchaSecret string        `env:"CAPTCHA_SECRET"`
	CaptchaTTL    time.Duration `env:"CAPTCHA_TTL" envDefault:"5m"`

	Backup BackupConfig
	Goals  GoalsConfig
}

// BackupConfig points the roster backup at an R2 bucket. Backups are off unless every field is set.
type BackupConfig struct {
	AccountID       string        `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string        `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string        `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string        `env:"R2_BUCKET_NAME"`
	Interval        time.Duration `env:"BACKUP_INTERVAL" envDefault:"24h"`
}

func (b BackupConfig) Enabled() bool {
	return b.AccountID != "" && b.AccessKeyID != "" && b.AccessKeySecret != "" && b.Bucket != ""
}

// GoalsConfig holds the campaign targets reported by the stats endpoint.
type GoalsConfig struct {
	Year           int `env:"GOAL_YEAR" envDefault:"2025"`
	TargetWarriors int `env:"GOAL_TARGET_WARRIORS" envDefault:"500"`
	TargetSchools  int `env:"GOAL_TARGET_SCHOOLS" envDefault:"100"`
	CurrentSchools int `env:"GOAL_CURRENT_SCHOOLS" envDefault:"42"`
	TargetDevices  int `env:"GOAL_TARGET_DEVICES" envDefault:"1000"`
	CurrentDevices int `env:"GOAL_CURRENT_DEVICES" envDefault:"1250"`
	LicensesSaved  int `env:"IMPACT_LICENSES_SAVED" envDefault:"15800"`
}

func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.MaxOpenConns)
	}
	return &cfg, nil
}
