package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	StaticDir      string        `yaml:"static_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 disables the per-request deadline
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty keeps chat history in memory
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Provider        string `yaml:"provider"` // gemini | openai | anthropic | noop; empty picks by available key
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	AnthropicKey    string `yaml:"anthropic_key"`
	DefaultModel    string `yaml:"default_model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type ChatConfig struct {
	HistoryContext int `yaml:"history_context"` // prior turns included in each prompt
	RateLimit      int `yaml:"rate_limit"`      // messages per minute per user; 0 disables
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // empty: every chat belongs to the default user
}

type WorkerConfig struct {
	PoolSize      int           `yaml:"pool_size"`
	StatsInterval time.Duration `yaml:"stats_interval"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"` // encrypts chat history at rest in redis
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Chat     ChatConfig     `yaml:"chat"`
	Auth     AuthConfig     `yaml:"auth"`
	Worker   WorkerConfig   `yaml:"worker"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// loads .env if present, applies environment overrides and defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.AI.GeminiKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	setFromEnv(&cfg.AI.OpenAIBaseURL, "OPENAI_BASE_URL")
	setFromEnv(&cfg.AI.AnthropicKey, "ANTHROPIC_API_KEY")
	setFromEnv(&cfg.AI.Provider, "AI_PROVIDER")
	setFromEnv(&cfg.AI.DefaultModel, "AI_MODEL")
	setFromEnv(&cfg.HTTP.Addr, "STUDY_HTTP_ADDR")
	setFromEnv(&cfg.Redis.URL, "REDIS_URL")
	setFromEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setFromEnv(&cfg.Log.Level, "LOG_LEVEL")
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = "127.0.0.1:8000"
	}
	if cfg.HTTP.StaticDir == "" {
		cfg.HTTP.StaticDir = "static"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 1024
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if cfg.AI.Provider == "" {
		switch {
		case cfg.AI.GeminiKey != "":
			cfg.AI.Provider = "gemini"
		case cfg.AI.OpenAIKey != "":
			cfg.AI.Provider = "openai"
		case cfg.AI.AnthropicKey != "":
			cfg.AI.Provider = "anthropic"
		}
	}
	if cfg.AI.DefaultModel == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.AI.DefaultModel = "gpt-4o-mini"
		case "anthropic":
			cfg.AI.DefaultModel = "claude-haiku-4-5"
		default:
			cfg.AI.DefaultModel = "gemini-1.5-flash"
		}
	}
	if cfg.Chat.HistoryContext <= 0 {
		cfg.Chat.HistoryContext = 5
	}
	if cfg.Worker.PoolSize <= 0 {
		cfg.Worker.PoolSize = 2
	}
	if cfg.Worker.StatsInterval <= 0 {
		cfg.Worker.StatsInterval = 30 * time.Second
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
}

// Validate performs the minimal checks needed to start serving.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiKey == "" {
			return errors.New("ai.gemini_key (or GEMINI_API_KEY) is required for provider gemini")
		}
	case "openai":
		if c.AI.OpenAIKey == "" {
			return errors.New("ai.openai_key (or OPENAI_API_KEY) is required for provider openai")
		}
	case "anthropic":
		if c.AI.AnthropicKey == "" {
			return errors.New("ai.anthropic_key (or ANTHROPIC_API_KEY) is required for provider anthropic")
		}
	case "noop", "":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	if k := len(c.Security.EncryptionKey); k != 0 && k != 16 && k != 24 && k != 32 {
		return fmt.Errorf("security.encryption_key must be 16, 24 or 32 bytes; got %d", k)
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}
