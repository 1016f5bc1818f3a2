package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseDSN     string        `yaml:"database_dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`

	RedisURL  string `yaml:"redis_url"`
	JWTSecret string `yaml:"jwt_secret"`
	Port      string `yaml:"port"`

	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimit      int           `yaml:"rate_limit"`
	RateWindow     time.Duration `yaml:"rate_window"`

	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`

	DiscordToken     string `yaml:"discord_token"`
	DiscordChannelID string `yaml:"discord_channel_id"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when neither file nor env override them.
func Default() Config {
	return Config{
		DatabaseDSN:     "file:memberhub.db",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		QueryTimeout:    10 * time.Second,
		Port:            "8080",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimit:       300,
		RateWindow:      time.Minute,
		LogLevel:        "info",
	}
}

// Load layers an optional YAML file and then the environment over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func applyEnv(cfg *Config) error {
	cfg.DatabaseDSN = getenv("DATABASE_URL", cfg.DatabaseDSN)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = getenv("JWT_SECRET", cfg.JWTSecret)
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.TLSCert = getenv("TLS_CERT", cfg.TLSCert)
	cfg.TLSKey = getenv("TLS_KEY", cfg.TLSKey)
	cfg.DiscordToken = getenv("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DiscordChannelID = getenv("DISCORD_CHANNEL_ID", cfg.DiscordChannelID)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	var err error
	if cfg.MaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns); err != nil {
		return err
	}
	if cfg.MaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns); err != nil {
		return err
	}
	if cfg.RateLimit, err = envInt("RATE_LIMIT", cfg.RateLimit); err != nil {
		return err
	}
	if cfg.QueryTimeout, err = envDuration("QUERY_TIMEOUT", cfg.QueryTimeout); err != nil {
		return err
	}
	if cfg.RateWindow, err = envDuration("RATE_WINDOW", cfg.RateWindow); err != nil {
		return err
	}
	if cfg.ConnMaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime); err != nil {
		return err
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("env %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("env %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database_dsn is required"))
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("jwt_secret must be at least 32 characters"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.QueryTimeout <= 0 {
		errs = append(errs, errors.New("query_timeout must be positive"))
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		errs = append(errs, errors.New("rate_window must be positive when rate_limit is set"))
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("tls_cert and tls_key must be set together"))
	}
	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		errs = append(errs, errors.New("discord_token and discord_channel_id must be set together"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Logger builds the process logger as JSON on stderr.
func (c Config) Logger() *slog.Logger {
	lvl, _ := c.Level()
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
