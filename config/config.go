package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingBotToken is returned by Load when no bot token is configured.
var ErrMissingBotToken = errors.New("telegram.bot_token is required (or TELEGRAM_BOT_TOKEN)")

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	Metrics    MetricsConfig

	// Bot API client
	Telegram  TelegramConfig
	RateLimit RateLimitConfig
	Poller    PollerConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
	// APIKey protects the relay routes when set. Sent as X-API-Key.
	APIKey string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type TelegramConfig struct {
	BotToken       string
	APIURL         string
	RequestTimeout time.Duration
	PollMargin     time.Duration
}

type RateLimitConfig struct {
	Enabled     bool
	GlobalRate  float64
	GlobalBurst int
	ChatRate    float64
	ChatBurst   int
	MaxChats    int
	ChatTTL     time.Duration
}

type PollerConfig struct {
	Enabled        bool
	Timeout        int
	Limit          int
	AllowedUpdates []string
	// DeleteWebhook removes a registered webhook before polling starts.
	DeleteWebhook bool
	Backoff       time.Duration
	MaxBackoff    time.Duration
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	return LoadFrom("./config", ".", "/etc/app/")
}

// LoadFrom is Load with explicit search paths.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.APIKey = v.GetString("http_server.api_key")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Path = v.GetString("metrics.path")

	// Bot API
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.APIURL = v.GetString("telegram.api_url")
	cfg.Telegram.RequestTimeout = v.GetDuration("telegram.request_timeout")
	cfg.Telegram.PollMargin = v.GetDuration("telegram.poll_margin")

	cfg.RateLimit.Enabled = v.GetBool("rate_limit.enabled")
	cfg.RateLimit.GlobalRate = v.GetFloat64("rate_limit.global_rate")
	cfg.RateLimit.GlobalBurst = v.GetInt("rate_limit.global_burst")
	cfg.RateLimit.ChatRate = v.GetFloat64("rate_limit.chat_rate")
	cfg.RateLimit.ChatBurst = v.GetInt("rate_limit.chat_burst")
	cfg.RateLimit.MaxChats = v.GetInt("rate_limit.max_chats")
	cfg.RateLimit.ChatTTL = v.GetDuration("rate_limit.chat_ttl")

	cfg.Poller.Enabled = v.GetBool("poller.enabled")
	cfg.Poller.Timeout = v.GetInt("poller.timeout")
	cfg.Poller.Limit = v.GetInt("poller.limit")
	cfg.Poller.DeleteWebhook = v.GetBool("poller.delete_webhook")
	cfg.Poller.Backoff = v.GetDuration("poller.backoff")
	cfg.Poller.MaxBackoff = v.GetDuration("poller.max_backoff")
	cfg.Poller.AllowedUpdates = splitList(v.GetStringSlice("poller.allowed_updates"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.BotToken == "" {
		return ErrMissingBotToken
	}
	if c.HTTPServer.Port <= 0 {
		return fmt.Errorf("http_server.port must be positive, got %d", c.HTTPServer.Port)
	}
	if c.Poller.Timeout < 0 {
		return fmt.Errorf("poller.timeout must not be negative, got %d", c.Poller.Timeout)
	}
	if c.Poller.Enabled && c.Telegram.RequestTimeout > 0 {
		poll := time.Duration(c.Poller.Timeout)*time.Second + c.Telegram.PollMargin
		if c.Telegram.RequestTimeout <= poll {
			return fmt.Errorf("telegram.request_timeout (%s) must exceed poller.timeout + telegram.poll_margin (%s)", c.Telegram.RequestTimeout, poll)
		}
	}
	if c.Poller.Limit < 0 || c.Poller.Limit > 100 {
		return fmt.Errorf("poller.limit must be between 0 and 100, got %d", c.Poller.Limit)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.request_timeout", "0s")
	v.SetDefault("telegram.poll_margin", "10s")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.global_rate", 30)
	v.SetDefault("rate_limit.chat_rate", 1)
	v.SetDefault("rate_limit.chat_burst", 1)
	v.SetDefault("rate_limit.max_chats", 1000)
	v.SetDefault("rate_limit.chat_ttl", "5m")

	v.SetDefault("poller.enabled", false)
	v.SetDefault("poller.timeout", 30)
	v.SetDefault("poller.limit", 100)
	v.SetDefault("poller.delete_webhook", false)
	v.SetDefault("poller.backoff", "1s")
	v.SetDefault("poller.max_backoff", "30s")
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
