package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the laptopmatch API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Generation GenerationConfig `yaml:"generation"`
	Auth       AuthConfig       `yaml:"auth"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds browser origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig limits AI generation endpoints per client IP.
type RateLimitConfig struct {
	GenerationPerMinute int `yaml:"generation_per_minute"` // 0 disables the limiter
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverBadger = "badger"
)

// DatabaseConfig holds key-value store settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, badger (default: badger)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	Path             string   `yaml:"path"` // badger directory; empty = in-memory
}

// CatalogConfig holds the laptop catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	SessionTTLSec int `yaml:"session_ttl_sec"` // sliding shortlist expiry
}

// GenerationConfig holds the OpenAI-compatible provider settings.
// An empty APIKey disables narrative endpoints.
type GenerationConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	SpeechModel string        `yaml:"speech_model"`
	Voice       string        `yaml:"voice"`
	Instruction string        `yaml:"instruction"`
	CacheTTLSec int           `yaml:"cache_ttl_sec"` // 0 disables the cache
	Budget      BudgetConfig  `yaml:"budget"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// Enabled reports whether a provider is configured.
func (g GenerationConfig) Enabled() bool { return g.APIKey != "" }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// BreakerConfig holds circuit breaker settings for the provider.
type BreakerConfig struct {
	MaxFailures uint32 `yaml:"max_failures"`
	OpenSec     int    `yaml:"open_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates raw YAML.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverBadger
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "data/laptops.json"
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = "openai"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Generation.SpeechModel == "" {
		c.Generation.SpeechModel = "tts-1"
	}
	if c.Generation.Voice == "" {
		c.Generation.Voice = "alloy"
	}
	if c.Generation.Breaker.MaxFailures == 0 {
		c.Generation.Breaker.MaxFailures = 5
	}
	if c.Generation.Breaker.OpenSec <= 0 {
		c.Generation.Breaker.OpenSec = 30
	}
	if c.Storage.SessionTTLSec <= 0 {
		c.Storage.SessionTTLSec = 30 * 24 * 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverBadger:
	default:
		return fmt.Errorf("database.driver must be one of valkey, redis, badger, got %q", c.Database.Driver)
	}
	switch c.Generation.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"generation.budget.action must be \"warn\" or \"reject\", got %q",
			c.Generation.Budget.Action,
		)
	}
	if c.RateLimit.GenerationPerMinute < 0 {
		return fmt.Errorf("rate_limit.generation_per_minute must be >= 0, got %d", c.RateLimit.GenerationPerMinute)
	}
	if slices.Contains(c.Auth.APIKeys, "") {
		return fmt.Errorf("auth.api_keys must not contain empty keys")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
