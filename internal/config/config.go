package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone     = "UTC"
	defaultFetchTimeout = 10 * time.Second
	defaultSplitTimeout = 3 * time.Second
	defaultInterval     = time.Hour

	configPathEnv     = "JAUNDICE_SCANNER_CONFIG"
	serverAddrEnv     = "SERVER_ADDR"
	databaseDSNEnv    = "DATABASE_DSN"
	chargedDictEnv    = "CHARGED_DICT_DIR"
	morphURLEnv       = "MORPH_INFERENCE_URL"
	morphAPIKeyEnv    = "MORPH_API_KEY"
	chatGPTAPIKeyEnv  = "CHATGPT_API_KEY"
	chatGPTModelEnv   = "CHATGPT_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Analysis      AnalysisConfig     `yaml:"analysis"`
	Morph         MorphConfig        `yaml:"morph"`
	Feeds         []FeedConfig       `yaml:"feeds"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
}

// ServerConfig describes the HTTP listener and its request limits.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	MaxURLs int    `yaml:"maxUrls"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes Postgres connection details; empty DSN disables storage.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AnalysisConfig carries the jaundice-analysis knobs shared by all entry points.
type AnalysisConfig struct {
	ChargedDict   string `yaml:"chargedDict"`
	Language      string `yaml:"language"`
	FetchTimeout  string `yaml:"fetchTimeout"`
	SplitTimeout  string `yaml:"splitTimeout"`
	MaxConcurrent int    `yaml:"maxConcurrent"`
}

// FetchDeadline resolves the per-URL fetch deadline string.
func (a AnalysisConfig) FetchDeadline() time.Duration {
	return parseDuration(a.FetchTimeout, defaultFetchTimeout)
}

// SplitDeadline resolves the tokenization deadline string.
func (a AnalysisConfig) SplitDeadline() time.Duration {
	return parseDuration(a.SplitTimeout, defaultSplitTimeout)
}

// MorphConfig selects the morphology backend: "local" stemming or a remote service.
type MorphConfig struct {
	Mode         string `yaml:"mode"`
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// FeedConfig describes one RSS/Atom feed watched by the monitor.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	MaxItems int    `yaml:"maxItems"`
}

// SchedulerConfig defines how often feed scans run.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// TickInterval resolves the scan interval string.
func (s SchedulerConfig) TickInterval() time.Duration {
	return parseDuration(s.Interval, defaultInterval)
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels and the flagging threshold.
type NotificationConfig struct {
	MinScore float64        `yaml:"minScore"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// ChatGPTConfig defines how to contact an OpenAI-compatible API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(chargedDictEnv); v != "" {
		c.Analysis.ChargedDict = v
	}

	if v := os.Getenv(morphURLEnv); v != "" {
		c.Morph.InferenceURL = v
	}

	if v := os.Getenv(morphAPIKeyEnv); v != "" {
		c.Morph.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.MaxURLs > 0 {
		base.Server.MaxURLs = override.Server.MaxURLs
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Analysis.ChargedDict != "" {
		base.Analysis.ChargedDict = override.Analysis.ChargedDict
	}
	if override.Analysis.Language != "" {
		base.Analysis.Language = override.Analysis.Language
	}
	if override.Analysis.FetchTimeout != "" {
		base.Analysis.FetchTimeout = override.Analysis.FetchTimeout
	}
	if override.Analysis.SplitTimeout != "" {
		base.Analysis.SplitTimeout = override.Analysis.SplitTimeout
	}
	if override.Analysis.MaxConcurrent > 0 {
		base.Analysis.MaxConcurrent = override.Analysis.MaxConcurrent
	}

	if override.Morph.Mode != "" {
		base.Morph.Mode = override.Morph.Mode
	}
	if override.Morph.InferenceURL != "" {
		base.Morph.InferenceURL = override.Morph.InferenceURL
	}
	if override.Morph.APIKey != "" {
		base.Morph.APIKey = override.Morph.APIKey
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.MinScore > 0 {
		base.Notifications.MinScore = override.Notifications.MinScore
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	return base
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("config: invalid duration %q, reverting to %s", value, fallback)
		return fallback
	}
	return d
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Server:   ServerConfig{Addr: ":8080", MaxURLs: 10},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{DSN: ""},
		Analysis: AnalysisConfig{
			ChargedDict:  "charged_dict",
			Language:     "russian",
			FetchTimeout: "10s",
			SplitTimeout: "3s",
		},
		Morph:     MorphConfig{Mode: "local"},
		Scheduler: SchedulerConfig{Interval: "1h", Timezone: defaultTimezone, location: tz},
		Notifications: NotificationConfig{
			MinScore: 2.0,
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You review jaundice-rate reports of news articles and point out the most loaded ones.",
		},
	}
}
