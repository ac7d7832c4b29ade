// Package config загружает конфигурацию сервера.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./config.yaml;
//  4. только ENV.
//
// Переменные окружения всегда накладываются поверх файла; .env в рабочем каталоге
// загружается в окружение до чтения (уже заданные переменные не перезаписываются).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Окружения
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const defaultFile = "config.yaml"

// Config конфигурация сервера
type Config struct {
	Env      string         `yaml:"env"       env:"ENV"       env-default:"local"`
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Content  ContentConfig  `yaml:"content"`
	Auth     AuthConfig     `yaml:"auth"`
	Limits   LimitsConfig   `yaml:"limits"`
	Comments CommentsConfig `yaml:"comments"`
	CORS     CORSConfig     `yaml:"cors"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Web      WebConfig      `yaml:"web"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

// HTTPConfig HTTP сервер
type HTTPConfig struct {
	Host         string        `yaml:"host"          env:"HTTP_HOST"          env-default:"0.0.0.0"`
	Port         string        `yaml:"port"          env:"HTTP_PORT"          env-default:"3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"HTTP_READ_TIMEOUT"  env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env:"HTTP_IDLE_TIMEOUT"  env-default:"60s"`
}

// Addr адрес для net.Listen
func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// StorageConfig хранилище JSON-документов
type StorageConfig struct {
	Driver   string `yaml:"driver"   env:"STORAGE_DRIVER"   env-default:"file"`
	Location string `yaml:"location" env:"STORAGE_LOCATION" env-default:"content"`
}

// ContentConfig каталог Markdown-постов
type ContentConfig struct {
	PostsDir string `yaml:"posts_dir" env:"POSTS_DIR" env-default:"content/posts"`
}

// AuthConfig вход администратора
type AuthConfig struct {
	Password     string        `yaml:"password"      env:"ADMIN_PASSWORD"`
	PasswordHash string        `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	TokenSecret  string        `yaml:"token_secret"  env:"TOKEN_SECRET"`
	TokenMode    string        `yaml:"token_mode"    env:"TOKEN_MODE"    env-default:"digest"`
	MaxSessions  int           `yaml:"max_sessions"  env:"MAX_SESSIONS"  env-default:"10"`
	SessionTTL   time.Duration `yaml:"session_ttl"   env:"SESSION_TTL"   env-default:"168h"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
}

// Режимы токенов
const (
	TokenModeDigest = "digest"
	TokenModeJWT    = "jwt"
)

// LimitsConfig ограничения частоты запросов
type LimitsConfig struct {
	Driver         string        `yaml:"driver"          env:"LIMITER_DRIVER"  env-default:"memory"`
	RedisURL       string        `yaml:"redis_url"       env:"REDIS_URL"`
	MaxKeys        int           `yaml:"max_keys"        env:"LIMITER_MAX_KEYS" env-default:"10000"`
	LoginMax       int           `yaml:"login_max"       env:"LOGIN_MAX"       env-default:"5"`
	LoginWindow    time.Duration `yaml:"login_window"    env:"LOGIN_WINDOW"    env-default:"15m"`
	CommentsMax    int           `yaml:"comments_max"    env:"COMMENTS_MAX"    env-default:"5"`
	CommentsWindow time.Duration `yaml:"comments_window" env:"COMMENTS_WINDOW" env-default:"1m"`
}

// Драйверы лимитера
const (
	LimiterMemory = "memory"
	LimiterRedis  = "redis"
)

// CommentsConfig комментарии
type CommentsConfig struct {
	Cascade string `yaml:"cascade" env:"COMMENTS_CASCADE" env-default:"direct"`
}

// CORSConfig разрешенные источники для админки на другом домене
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// MetricsConfig Prometheus. Метрики включены, пока не задано disabled: true
// (cleanenv не отличает явный false от отсутствующего ключа).
type MetricsConfig struct {
	Disabled bool `yaml:"disabled" env:"METRICS_DISABLED"`
}

// WebConfig статические страницы /admin и /login
type WebConfig struct {
	Dir string `yaml:"dir" env:"WEB_DIR"`
}

// JobsConfig фоновые задачи
type JobsConfig struct {
	PruneSchedule string `yaml:"prune_schedule" env:"PRUNE_SCHEDULE" env-default:"@hourly"`
}

// MustLoad паникует при ошибке загрузки
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load читает и проверяет конфигурацию
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat(defaultFile); err == nil {
			path = defaultFile
		}
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		// ReadConfig накладывает ENV поверх файла
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные секреты и допустимые значения
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		errs = append(errs, errors.New("auth.password or auth.password_hash is required"))
	}
	if len(c.Auth.TokenSecret) < 16 {
		errs = append(errs, errors.New("auth.token_secret must be at least 16 characters"))
	}
	if !slices.Contains([]string{TokenModeDigest, TokenModeJWT}, c.Auth.TokenMode) {
		errs = append(errs, fmt.Errorf("auth.token_mode: unknown mode %q", c.Auth.TokenMode))
	}
	if c.Auth.MaxSessions < 1 {
		errs = append(errs, errors.New("auth.max_sessions must be positive"))
	}
	if c.Auth.TokenMode == TokenModeJWT && c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}

	if !slices.Contains([]string{"file", "boltdb", "sqlite"}, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}

	switch c.Limits.Driver {
	case LimiterMemory:
	case LimiterRedis:
		if c.Limits.RedisURL == "" {
			errs = append(errs, errors.New("limits.redis_url is required for redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("limits.driver: unknown driver %q", c.Limits.Driver))
	}
	if c.Limits.LoginMax < 1 || c.Limits.CommentsMax < 1 {
		errs = append(errs, errors.New("limits: max values must be positive"))
	}
	if c.Limits.LoginWindow <= 0 || c.Limits.CommentsWindow <= 0 {
		errs = append(errs, errors.New("limits: windows must be positive"))
	}

	if !slices.Contains([]string{"direct", "deep"}, c.Comments.Cascade) {
		errs = append(errs, fmt.Errorf("comments.cascade: unknown mode %q", c.Comments.Cascade))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
