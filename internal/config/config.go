package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`
	// create tables on startup when missing
	PostgresEnsureSchema bool `toml:"postgres_ensure_schema"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// sessions & rate limiting
	SessionTTL                  Duration `toml:"session_ttl"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`

	// avatars
	AvatarsRootPath string `toml:"avatars_root_path"`

	// public plans listing cache
	PlansCacheTTL Duration `toml:"plans_cache_ttl"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

// Duration lets TOML carry values like "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not present", env)
	}
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(env)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.SessionTTL.Duration == 0 {
		c.SessionTTL.Duration = 24 * 7 * time.Hour
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.PlansCacheTTL.Duration == 0 {
		c.PlansCacheTTL.Duration = 30 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return errors.New("port not set")
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		return errors.New("postgres host, port and db name must be set")
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		return errors.New("redis host and port must be set")
	}
	if c.AvatarsRootPath == "" {
		return errors.New("avatars root path not set")
	}
	return nil
}
