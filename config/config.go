// Package config loads server configuration from an optional YAML file,
// applies environment overrides, and fills defaults. Secrets (provider API
// keys, privileged codes) are expected from the environment, never from
// source.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sharpeagle50/AI-Research-Assistant/provider"
)

// Config is the complete server configuration.
type Config struct {
	Server      ServerConfig                    `yaml:"server"`
	Logging     LoggingConfig                   `yaml:"logging"`
	Providers   ProvidersConfig                 `yaml:"providers"`
	Redis       RedisConfig                     `yaml:"redis"`
	Quota       QuotaConfig                     `yaml:"quota"`
	Sessions    SessionsConfig                  `yaml:"sessions"`
	AdminCodes  []string                        `yaml:"admin_codes"`
	UpgradeURL  string                          `yaml:"upgrade_url"`
	CORSOrigins []string                        `yaml:"cors_origins"`
	Models      map[string]provider.ModelConfig `yaml:"models"`
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProvidersConfig contains upstream API credentials and call limits.
type ProvidersConfig struct {
	OpenAIKey    string        `yaml:"openai_api_key"`
	AnthropicKey string        `yaml:"anthropic_api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// RedisConfig selects the optional Redis-backed entitlement store. An
// empty Addr keeps the in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// QuotaConfig bounds per-session AI usage within a reset window.
type QuotaConfig struct {
	DailyLimit    int    `yaml:"daily_limit"`
	ResetSchedule string `yaml:"reset_schedule"`
}

// SessionsConfig controls session maintenance.
type SessionsConfig struct {
	ExpirySweepSchedule string `yaml:"expiry_sweep_schedule"`
}

// Default returns the baseline configuration, including the static model
// table. Admin codes and API keys carry no defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "3000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Providers: ProvidersConfig{
			Timeout: 30 * time.Second,
		},
		Quota: QuotaConfig{
			DailyLimit:    1000,
			ResetSchedule: "@every 24h",
		},
		Sessions: SessionsConfig{
			ExpirySweepSchedule: "@hourly",
		},
		UpgradeURL: "https://your-research-assistant-api.com/subscribe",
		Models: map[string]provider.ModelConfig{
			"anthropic_sonnet": {
				Provider:  provider.NameAnthropic,
				Model:     "claude-sonnet-4-20250514",
				Endpoint:  "https://api.anthropic.com/v1/messages",
				MaxTokens: 2000,
			},
			"anthropic_opus": {
				Provider:  provider.NameAnthropic,
				Model:     "claude-opus-4-20250514",
				Endpoint:  "https://api.anthropic.com/v1/messages",
				MaxTokens: 4000,
			},
			"openai_41": {
				Provider:  provider.NameOpenAI,
				Model:     "gpt-4.1",
				Endpoint:  "https://api.openai.com/v1/chat/completions",
				MaxTokens: 4000,
			},
			"openai_41_mini": {
				Provider:  provider.NameOpenAI,
				Model:     "gpt-4.1-mini",
				Endpoint:  "https://api.openai.com/v1/chat/completions",
				MaxTokens: 2000,
			},
		},
	}
}

// Load reads configuration from path (optional; empty means defaults only),
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Providers.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Providers.AnthropicKey = v
	}
	if v := os.Getenv("ADMIN_CODES"); v != "" {
		cfg.AdminCodes = splitCodes(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DAILY_REQUEST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Quota.DailyLimit = n
		}
	}
}

func splitCodes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects model entries that the gateway could never serve.
func (c *Config) Validate() error {
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("quota.daily_limit must be positive, got %d", c.Quota.DailyLimit)
	}
	for name, m := range c.Models {
		if m.Provider != provider.NameOpenAI && m.Provider != provider.NameAnthropic {
			return fmt.Errorf("model %q: unknown provider %q", name, m.Provider)
		}
		if m.Endpoint == "" {
			return fmt.Errorf("model %q: endpoint is required", name)
		}
		if m.MaxTokens <= 0 {
			return fmt.Errorf("model %q: max_tokens must be positive, got %d", name, m.MaxTokens)
		}
	}
	return nil
}
