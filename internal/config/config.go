package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	Log       *LogConfig       `mapstructure:"log"`
	Timeouts  *TimeoutsConfig  `mapstructure:"timeouts"`
	Scheduler *SchedulerConfig `mapstructure:"scheduler"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
	MaxUploadBytes     int64    `mapstructure:"max_upload_bytes"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig is optional. An empty Host disables the leaderboard cache.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig points at an S3 compatible bucket. An empty Bucket disables uploads.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type TimeoutsConfig struct {
	Dependency time.Duration `mapstructure:"dependency"`
	Storage    time.Duration `mapstructure:"storage"`
}

type SchedulerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	EventTick     time.Duration `mapstructure:"event_tick"`
	AuditInterval time.Duration `mapstructure:"audit_interval"`
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Warn("config file changed, restart the server to apply it", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.rate_limit_per_minute", 30)
	v.SetDefault("api.max_upload_bytes", 20<<20)

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "questboard")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Minute)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.public_base_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("timeouts.dependency", 5*time.Second)
	v.SetDefault("timeouts.storage", 30*time.Second)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.event_tick", time.Minute)
	v.SetDefault("scheduler.audit_interval", 15*time.Minute)
}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.API, validation.Required),
		validation.Field(&c.Gin, validation.Required),
		validation.Field(&c.Postgres, validation.Required),
		validation.Field(&c.Timeouts, validation.Required),
	)
}

func (c APIConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Environment, validation.Required, validation.In("development", "staging", "production")),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.JWTSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.RateLimitPerMinute, validation.Min(0)),
		validation.Field(&c.MaxUploadBytes, validation.Min(int64(1))),
	)
}

func (c GinConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Mode, validation.Required, validation.In("debug", "release", "test")),
	)
}

func (c PostgresConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DB, validation.Required),
	)
}

func (c TimeoutsConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Dependency, validation.Required),
		validation.Field(&c.Storage, validation.Required),
	)
}

// DSN builds the connection string for the Postgres section.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c StorageConfig) Enabled() bool { return c.Bucket != "" }
