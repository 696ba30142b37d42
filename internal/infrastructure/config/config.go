package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MODERATOR"

// Config holds the process-wide configuration. It is read-only after Load.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	Env  string `mapstructure:"env"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

// ModerationConfig holds pipeline settings
type ModerationConfig struct {
	MaxLength    int           `mapstructure:"max_length"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	CacheBackend string        `mapstructure:"cache_backend"`
	CacheSize    int           `mapstructure:"cache_size"`
}

// ProviderConfig holds settings shared by every provider
type ProviderConfig struct {
	Enabled    bool               `mapstructure:"enabled"`
	APIKey     string             `mapstructure:"api_key"`
	BaseURL    string             `mapstructure:"base_url"`
	Timeout    time.Duration      `mapstructure:"timeout"`
	MaxRetries int                `mapstructure:"max_retries"`
	FailOpen   bool               `mapstructure:"fail_open"`
	Thresholds map[string]float64 `mapstructure:"thresholds"`
}

// OpenAIConfig holds OpenAI moderation settings
type OpenAIConfig struct {
	ProviderConfig `mapstructure:",squash"`
	Model          string `mapstructure:"model"`
}

// PerspectiveConfig holds Perspective API settings
type PerspectiveConfig struct {
	ProviderConfig   `mapstructure:",squash"`
	Attributes       []string `mapstructure:"attributes"`
	Languages        []string `mapstructure:"languages"`
	DefaultThreshold float64  `mapstructure:"default_threshold"`
}

// ProvidersConfig holds settings for all providers
type ProvidersConfig struct {
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Perspective PerspectiveConfig `mapstructure:"perspective"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults, an optional YAML file named by
// MODERATOR_CONFIG and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindAliases(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	cfg.applyDerived()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "")
	v.SetDefault("server.env", "development")

	v.SetDefault("cors.origin", "*")

	v.SetDefault("moderation.max_length", 32768)
	v.SetDefault("moderation.cache_ttl", time.Duration(0))
	v.SetDefault("moderation.cache_backend", "memory")
	v.SetDefault("moderation.cache_size", 10000)

	v.SetDefault("providers.openai.enabled", true)
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com")
	v.SetDefault("providers.openai.model", "omni-moderation-latest")
	v.SetDefault("providers.openai.timeout", 10*time.Second)
	v.SetDefault("providers.openai.max_retries", 2)
	v.SetDefault("providers.openai.fail_open", false)
	v.SetDefault("providers.openai.thresholds", map[string]float64{})

	v.SetDefault("providers.perspective.enabled", false)
	v.SetDefault("providers.perspective.api_key", "")
	v.SetDefault("providers.perspective.base_url", "https://commentanalyzer.googleapis.com")
	v.SetDefault("providers.perspective.timeout", 10*time.Second)
	v.SetDefault("providers.perspective.max_retries", 2)
	v.SetDefault("providers.perspective.fail_open", true)
	v.SetDefault("providers.perspective.attributes", []string{
		"TOXICITY", "SEVERE_TOXICITY", "IDENTITY_ATTACK", "INSULT", "PROFANITY", "THREAT",
	})
	v.SetDefault("providers.perspective.languages", []string{"en"})
	v.SetDefault("providers.perspective.default_threshold", 0.7)
	v.SetDefault("providers.perspective.thresholds", map[string]float64{})

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", 15*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindAliases keeps the unprefixed variable names the service has always accepted
func bindAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"server.port":                   {"MODERATOR_SERVER_PORT", "PORT"},
		"server.env":                    {"MODERATOR_SERVER_ENV", "APP_ENV", "NODE_ENV"},
		"cors.origin":                   {"MODERATOR_CORS_ORIGIN", "CORS_ORIGIN"},
		"providers.openai.api_key":      {"MODERATOR_PROVIDERS_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"providers.openai.model":        {"MODERATOR_PROVIDERS_OPENAI_MODEL", "OPENAI_MODEL"},
		"providers.perspective.api_key": {"MODERATOR_PROVIDERS_PERSPECTIVE_API_KEY", "PERSPECTIVE_API_KEY"},
		"providers.perspective.enabled": {"MODERATOR_PROVIDERS_PERSPECTIVE_ENABLED", "PERSPECTIVE_ENABLED"},
		"moderation.max_length":         {"MODERATOR_MODERATION_MAX_LENGTH", "MAX_TEXT_LENGTH"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// applyDerived fills values computed from other settings
func (c *Config) applyDerived() {
	p := &c.Providers.Perspective
	if p.Thresholds == nil {
		p.Thresholds = make(map[string]float64, len(p.Attributes))
	}
	for _, attr := range p.Attributes {
		key := strings.ToLower(attr)
		if _, ok := p.Thresholds[key]; !ok {
			p.Thresholds[key] = p.DefaultThreshold
		}
	}

	if c.Server.Mode == "" {
		c.Server.Mode = "release"
		if c.IsDevelopment() {
			c.Server.Mode = "debug"
		}
	}
}

// IsDevelopment reports whether development-only behaviour such as stack traces is enabled
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Validate checks the configuration for startup
func (c *Config) Validate() error {
	if c.Moderation.MaxLength <= 0 {
		return fmt.Errorf("moderation.max_length must be positive")
	}

	enabled := 0
	check := func(name string, p ProviderConfig) error {
		if !p.Enabled {
			return nil
		}
		enabled++
		if p.APIKey == "" {
			return fmt.Errorf("providers.%s.api_key is required when the provider is enabled", name)
		}
		for category, threshold := range p.Thresholds {
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("providers.%s.thresholds.%s must be within [0, 1]", name, category)
			}
		}
		return nil
	}
	if err := check("openai", c.Providers.OpenAI.ProviderConfig); err != nil {
		return err
	}
	if err := check("perspective", c.Providers.Perspective.ProviderConfig); err != nil {
		return err
	}
	if enabled == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate_limit.requests and rate_limit.window must be positive")
	}
	return nil
}
