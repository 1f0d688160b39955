package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type APIConfig struct {
	Port       int           `yaml:"port"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LookupConfig points at the upstream consultation services. Paths default to
// /api/consulta/<service> under BaseURL; entries in Services override per key.
type LookupConfig struct {
	BaseURL  string            `yaml:"base_url"`
	Timeout  time.Duration     `yaml:"timeout"`
	Services map[string]string `yaml:"services"`
	Identity struct {
		EmpresaPath string `yaml:"empresa_path"`
		PersonaPath string `yaml:"persona_path"`
		DniPath     string `yaml:"dni_path"`
	} `yaml:"identity"`
}

type SchedulerConfig struct {
	PruneInterval time.Duration `yaml:"prune_interval"`
	StateTTL      time.Duration `yaml:"state_ttl"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	API       APIConfig       `yaml:"api"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Workers   int             `yaml:"workers"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.SessionTTL <= 0 {
		cfg.API.SessionTTL = 24 * time.Hour
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Lookup.Timeout <= 0 {
		cfg.Lookup.Timeout = 30 * time.Second
	}
	if cfg.Scheduler.PruneInterval <= 0 {
		cfg.Scheduler.PruneInterval = 10 * time.Minute
	}
	if cfg.Scheduler.StateTTL <= 0 {
		cfg.Scheduler.StateTTL = time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}

	// env overrides for deploy secrets
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.API.JWTSecret = v
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Lookup.BaseURL == "" {
		return nil, errors.New("lookup.base_url is required")
	}
	if cfg.API.JWTSecret == "" {
		return nil, errors.New("api.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
