// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var productionOrigins = []string{"https://supply-sight-dev.vercel.app", "https://supply-sight-prod.vercel.app"}

var developmentOrigins = []string{"http://localhost:5173"}

// Config holds configuration knobs for the HTTP server, the storage backend
// and the KPI generator. Every field maps to an environment variable.
type Config struct {
	HTTPAddr            string        `mapstructure:"HTTP_ADDR"`
	AppEnv              string        `mapstructure:"APP_ENV"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	ShutdownTimeout     time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	CORSOrigins         []string      `mapstructure:"CORS_ORIGINS"`
	GraphQLMaxBodyBytes int64         `mapstructure:"GRAPHQL_MAX_BODY_BYTES"`

	DataDriver  string `mapstructure:"DATA_DRIVER"`
	DataPath    string `mapstructure:"DATA_PATH"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	RedisKey    string `mapstructure:"REDIS_KEY"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3Key       string `mapstructure:"S3_KEY"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`

	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3SessionToken    string `mapstructure:"S3_SESSION_TOKEN"`

	KPISeed     uint64 `mapstructure:"KPI_SEED"`
	KPIMaxRange int    `mapstructure:"KPI_MAX_RANGE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":4000")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("GRAPHQL_MAX_BODY_BYTES", 1<<20)

	v.SetDefault("DATA_DRIVER", "file")
	v.SetDefault("DATA_PATH", "data/seed.json")
	v.SetDefault("SQLITE_PATH", "data/supplysight.db")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_KEY", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PATH_STYLE", false)
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_SESSION_TOKEN", "")

	v.SetDefault("KPI_SEED", 0)
	v.SetDefault("KPI_MAX_RANGE", 365)
}

// Load collects configuration from the environment with defaults. When path
// is non-empty that file is read first and must exist; otherwise an optional
// .env in the working directory is used.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.DataDriver = strings.ToLower(strings.TrimSpace(c.DataDriver))
	if c.LogLevel == "" {
		c.LogLevel = "info"
		if !c.IsProduction() {
			c.LogLevel = "debug"
		}
	}
	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
	if len(c.CORSOrigins) == 0 {
		if c.IsProduction() {
			c.CORSOrigins = append([]string(nil), productionOrigins...)
		} else {
			c.CORSOrigins = append([]string(nil), developmentOrigins...)
		}
	}
}

// Validate reports configuration that cannot start a service.
func (c Config) Validate() error {
	switch c.DataDriver {
	case "file", "memory", "sqlite", "postgres", "s3", "redis":
	default:
		return fmt.Errorf("unsupported DATA_DRIVER %q", c.DataDriver)
	}
	if c.DataDriver == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET required for s3 driver")
	}
	if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}
	if c.KPIMaxRange < 1 {
		return fmt.Errorf("KPI_MAX_RANGE must be >= 1")
	}
	if c.GraphQLMaxBodyBytes < 1 {
		return fmt.Errorf("GRAPHQL_MAX_BODY_BYTES must be >= 1")
	}
	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool { return c.AppEnv == EnvProduction }
