package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	NotifyModeSync  = "sync"
	NotifyModeAsync = "async"

	NotifierSMTP = "smtp"
	NotifierSES  = "ses"
	NotifierLog  = "log"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"5000"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Notification Config
	NotifyMode    string        `env:"NOTIFY_MODE" envDefault:"sync"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
	Notifier      string        `env:"NOTIFIER" envDefault:"smtp"`

	// SMTP Config
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"true"`

	// SES Config
	AWSRegion string `env:"AWS_REGION"`
	SESFrom   string `env:"SES_FROM"`

	// Upload Config
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadMB int    `env:"MAX_UPLOAD_MB" envDefault:"5"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	// EMAIL_USER / EMAIL_PASS оставлены для совместимости со старым .env
	username := getEnv("SMTP_USERNAME", os.Getenv("EMAIL_USER"))

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		HTTPPort:       getEnv("HTTP_PORT", "5000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		NotifyMode:     strings.ToLower(getEnv("NOTIFY_MODE", NotifyModeSync)),
		NotifyTimeout:  getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		Notifier:       strings.ToLower(getEnv("NOTIFIER", NotifierSMTP)),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:   username,
		SMTPPassword:   getEnv("SMTP_PASSWORD", os.Getenv("EMAIL_PASS")),
		SMTPFrom:       getEnv("SMTP_FROM", username),
		SMTPUseTLS:     getEnvAsBool("SMTP_USE_TLS", true),
		AWSRegion:      os.Getenv("AWS_REGION"),
		SESFrom:        os.Getenv("SES_FROM"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB:    getEnvAsInt("MAX_UPLOAD_MB", 5),
	}

	// Загрузка списка разрешенных origin для CORS
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	switch c.NotifyMode {
	case NotifyModeSync, NotifyModeAsync:
	default:
		return fmt.Errorf("NOTIFY_MODE must be %q or %q, got %q", NotifyModeSync, NotifyModeAsync, c.NotifyMode)
	}

	if c.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be positive")
	}

	switch c.Notifier {
	case NotifierSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required for smtp notifier")
		}
		if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
		}
		if c.SMTPFrom == "" {
			return fmt.Errorf("SMTP_FROM or EMAIL_USER is required for smtp notifier")
		}
	case NotifierSES:
		if c.AWSRegion == "" || c.SESFrom == "" {
			return fmt.Errorf("AWS_REGION and SES_FROM are required for ses notifier")
		}
	case NotifierLog:
	default:
		return fmt.Errorf("unknown NOTIFIER %q", c.Notifier)
	}

	if c.NotifyMode == NotifyModeAsync && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when NOTIFY_MODE=async")
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// MaxUploadBytes возвращает лимит размера загружаемого фото в байтах
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
