// Package config loads application configuration from an optional config
// file plus FINADVISOR_-prefixed environment variables, and initializes the
// global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Advisor   AdvisorConfig   `yaml:"advisor" mapstructure:"advisor"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DataConfig points at the startup CSV tables.
type DataConfig struct {
	VehiclesPath string `yaml:"vehicles_path" mapstructure:"vehicles_path"`
	LendersPath  string `yaml:"lenders_path" mapstructure:"lenders_path"`
}

// AnthropicConfig holds Anthropic API settings. An empty key is not an
// error: the advisor runs fallback-only.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// AdvisorConfig bounds the generation call.
type AdvisorConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SessionConfig configures the in-memory conversation store.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// Validate checks the loaded configuration for values the server cannot run
// with. An empty Anthropic key is deliberately not an error: the advisor
// degrades to its rule-based fallback.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		problems = append(problems, "server rate limit values must be > 0")
	}
	if c.Advisor.TimeoutSecs <= 0 {
		problems = append(problems, "advisor.timeout_secs must be > 0")
	}
	if c.Session.TTLMinutes <= 0 {
		problems = append(problems, "session.ttl_minutes must be > 0")
	}
	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FINADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("data.vehicles_path", "data/vehicles.csv")
	v.SetDefault("data.lenders_path", "data/lenders.csv")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("advisor.timeout_secs", 30)
	v.SetDefault("session.ttl_minutes", 30)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
