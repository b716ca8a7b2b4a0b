package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DefaultJWTSecret matches the fallback the mobile clients were issued tokens with.
const DefaultJWTSecret = "1234"

// Config holds application level configuration loaded from environment variables
// and an optional config file.
type Config struct {
	ServerPort string `mapstructure:"server_port"`
	AppEnv     string `mapstructure:"app_env"`
	LogLevel   string `mapstructure:"log_level"`

	StoreDriver   string `mapstructure:"store_driver"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	MySQLDSN      string `mapstructure:"mysql_dsn"`
	SQLitePath    string `mapstructure:"sqlite_path"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
	RedisPass string `mapstructure:"redis_password"`

	JWTSecret    string `mapstructure:"jwt_secret"`
	JWTExpiresIn string `mapstructure:"jwt_expires_in"`

	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	SwaggerHost        string `mapstructure:"swagger_host"`
	MetricsEnabled     bool   `mapstructure:"metrics_enabled"`
}

// Load builds Config from .env, config.{yaml,json,toml} and the environment,
// in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("store_driver", DriverMongo)
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "cozinhai")
	v.SetDefault("mysql_dsn", "user:password@tcp(localhost:3306)/cozinhai?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("sqlite_path", "data/cozinhai.db")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")

	v.SetDefault("jwt_secret", DefaultJWTSecret)
	v.SetDefault("jwt_expires_in", "7d")

	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("swagger_host", "")
	v.SetDefault("metrics_enabled", true)
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	return nil
}

// TokenTTL parses JWTExpiresIn.
func (c *Config) TokenTTL() (time.Duration, error) {
	d, err := ParseDuration(c.JWTExpiresIn)
	if err != nil {
		return 0, fmt.Errorf("invalid jwt_expires_in %q: %w", c.JWTExpiresIn, err)
	}
	return d, nil
}

// CORSOrigins returns the allowed origins as slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// ParseDuration accepts Go durations ("168h", "90m") and whole days ("7d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("parse days: %w", err)
		}
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
