package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr             string        `yaml:"addr"`
	JWTSecret        string        `yaml:"jwt_secret"`
	APITimeout       time.Duration `yaml:"timeout"`
	DatabasePath     string        `yaml:"database_path"`
	TokenDuration    time.Duration `yaml:"token_duration"`
	MigrateOnStart   bool          `yaml:"migrate_on_start"`
	SitePasswordHash string        `yaml:"site_password_hash"`
	Workers          int           `yaml:"workers"`
	Search           SearchConfig  `yaml:"search"`
	Redis            RedisConfig   `yaml:"redis"`
	Ollama           OllamaConfig  `yaml:"ollama"`
	Embedding        EmbedConfig   `yaml:"embedding"`
}

// SearchConfig tunes the matching core and its snapshot.
type SearchConfig struct {
	ResultCap         int           `yaml:"result_cap"`
	Workers           int           `yaml:"workers"`
	ParallelThreshold int           `yaml:"parallel_threshold"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	RefreshSpec       string        `yaml:"refresh_spec"`
	LegacyCatchAll    bool          `yaml:"legacy_catch_all"`
}

// RedisConfig selects the redis cache. An empty Addr keeps results in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	DefaultModelNames       []string      `yaml:"models"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

type EmbedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 12 * time.Hour

	redisDB, err := strconv.Atoi(getEnv("ALUMNI_REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("ALUMNI_REDIS_DB: %w", err)
	}

	cfg := &Config{
		Addr:             getEnv("ALUMNI_ADDR", ":8080"),
		JWTSecret:        getEnv("ALUMNI_JWT_SECRET", insecureJWTSecret),
		APITimeout:       apiTimeout,
		DatabasePath:     getEnv("ALUMNI_DATABASE_PATH", "alumni.db"),
		TokenDuration:    tokenDuration,
		SitePasswordHash: getEnv("ALUMNI_SITE_PASSWORD_HASH", ""),
		Redis: RedisConfig{
			Addr:     getEnv("ALUMNI_REDIS_ADDR", ""),
			Password: getEnv("ALUMNI_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// IsDevelopment reports whether ALUMNI_ENV relaxes secret checks.
func IsDevelopment() bool {
	return os.Getenv("ALUMNI_ENV") == "development"
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 2
	}

	s := &c.Search
	if s.ResultCap <= 0 {
		s.ResultCap = 20
	}
	if s.Workers <= 0 {
		s.Workers = max(runtime.NumCPU()/2, 1)
	}
	if s.ParallelThreshold <= 0 {
		s.ParallelThreshold = 256
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = 5 * time.Minute
	}
	if s.RefreshSpec == "" {
		s.RefreshSpec = "@every 5m"
	}

	o := &c.Ollama
	if o.BaseURL == "" {
		o.BaseURL = "http://localhost:11434"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Retries == 0 {
		o.Retries = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 500 * time.Millisecond
	}
	if o.CircuitFailureThreshold <= 0 {
		o.CircuitFailureThreshold = 5
	}
	if o.CircuitReset <= 0 {
		o.CircuitReset = 30 * time.Second
	}

	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
}

// Validate fills defaults and rejects settings that are unsafe outside development.
func (c *Config) Validate() error {
	c.applyDefaults()

	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}

	if !IsDevelopment() {
		if c.JWTSecret == "" || c.JWTSecret == insecureJWTSecret {
			errs = append(errs, errors.New("jwt_secret must be set to a non-default value"))
		}
		if c.SitePasswordHash == "" {
			errs = append(errs, errors.New("site_password_hash is required"))
		}
	}

	if c.Embedding.Enabled && len(c.Ollama.DefaultModelNames) > 0 && !contains(c.Ollama.DefaultModelNames, c.Embedding.Model) {
		errs = append(errs, fmt.Errorf("embedding.model %q is not in ollama.models", c.Embedding.Model))
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
