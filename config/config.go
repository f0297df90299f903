package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "habittracker/pkg/config"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultBcryptCost = 10

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server     pkgconfig.ServerConfig     `yaml:"server"`
	DB         pkgconfig.DBConfig         `yaml:"db"`
	Storage    pkgconfig.StorageConfig    `yaml:"storage"`
	JWT        pkgconfig.JWTConfig        `yaml:"jwt"`
	Cookie     pkgconfig.CookieConfig     `yaml:"cookie"`
	Redis      pkgconfig.RedisConfig      `yaml:"redis"`
	MQ         pkgconfig.MQConfig         `yaml:"mq"`
	Log        pkgconfig.LogConfig        `yaml:"log"`
	Tracing    pkgconfig.TracingConfig    `yaml:"tracing"`
	LoginLimit pkgconfig.LoginLimitConfig `yaml:"login_limit"`
}

// Load reads a single yaml file. When configDir is set and holds a base.yaml,
// the layered loader is used instead. Environment variables win in both cases.
func Load(path, configDir string) (*Config, error) {
	var cfg Config

	if configDir != "" {
		if _, err := os.Stat(filepath.Join(configDir, "base.yaml")); err == nil {
			if err := pkgconfig.LoadLayered(pkgconfig.GetConfigEnv(), configDir, &cfg); err != nil {
				return nil, err
			}
			return finish(&cfg)
		}
	}

	if path == "" {
		path = "config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	overrideFromEnv(cfg)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 环境变量覆盖（生产环境使用）
func overrideFromEnv(cfg *Config) {
	pkgconfig.OverrideServerFromEnv(&cfg.Server)
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideStorageFromEnv(&cfg.Storage)
	pkgconfig.OverrideJWTFromEnv(&cfg.JWT)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideMQFromEnv(&cfg.MQ)
	pkgconfig.OverrideLogFromEnv(&cfg.Log)

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cookie.Secure = b
		}
	}
	if v := os.Getenv("TRACING_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
		cfg.Tracing.Enabled = true
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":4000"
	}
	if c.Server.BcryptCost == 0 {
		c.Server.BcryptCost = DefaultBcryptCost
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = DefaultAccessTTL
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = DefaultRefreshTTL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverPostgres
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "habits.db"
	}
	if c.Cookie.Path == "" {
		c.Cookie.Path = "/"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "habitsd"
	}
	if c.LoginLimit.MaxAttempts == 0 {
		c.LoginLimit.MaxAttempts = 5
	}
	if c.LoginLimit.Window == 0 {
		c.LoginLimit.Window = 15 * time.Minute
	}
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("config: jwt access_secret and refresh_secret are required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("config: jwt access_secret and refresh_secret must differ")
	}
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
