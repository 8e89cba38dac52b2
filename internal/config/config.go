// Package config loads settings from the environment plus an
// optional YAML sources file. Missing credentials are a startup
// failure, never a degraded run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Credentials
	TelegramToken string
	GroqAPIKey    string
	YouTubeAPIKey string
	GeminiAPIKey  string // optional fallback translator

	// Ledger
	DatabaseURL    string // Postgres when set, JSON file otherwise
	LedgerFilePath string

	// Daily trigger
	DailyChatID string // empty disables the scheduled send
	DailyHour   int
	DailyMinute int
	Timezone    string

	// Content sources, ordered primary-first per category
	SourcesConfigPath string
	HistorySources    []string
	WorldSources      []string

	// Monitoring
	MonitoringEnabled bool
	MonitoringPort    string

	Debug bool
}

// SourcesFile is the YAML layout of the per-category source lists.
type SourcesFile struct {
	History []string `yaml:"history"`
	World   []string `yaml:"world"`
}

// The original feed lineup, used when no sources file overrides it.
var defaultHistorySources = []string{
	"https://www.history.com/.rss/full",
	"https://www.smithsonianmag.com/rss/latest_articles/",
	"https://www.historytoday.com/rss.xml",
}

var defaultWorldSources = []string{
	"https://www.nationalgeographic.com/pages/feed/",
	"https://www.bbc.com/news/science_and_environment/rss.xml",
	"https://www.scientificamerican.com/xml/rss.xml",
}

func Load() (*Config, error) {
	cfg := &Config{
		LedgerFilePath:    getEnvOrDefault("LEDGER_FILE_PATH", "sent_items.json"),
		SourcesConfigPath: getEnvOrDefault("SOURCES_CONFIG_PATH", "configs/sources.yaml"),
		DailyHour:         getEnvIntOrDefault("DAILY_SEND_HOUR", 8),
		DailyMinute:       getEnvIntOrDefault("DAILY_SEND_MINUTE", 0),
		Timezone:          getEnvOrDefault("TIMEZONE", "Asia/Jerusalem"),
		MonitoringPort:    getEnvOrDefault("MONITORING_PORT", "8000"),
		HistorySources:    defaultHistorySources,
		WorldSources:      defaultWorldSources,
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DailyChatID = os.Getenv("DAILY_CHAT_ID")
	cfg.MonitoringEnabled = os.Getenv("ENABLE_HTTP_MONITORING") == "true"
	cfg.Debug = os.Getenv("DEBUG") == "true"

	if err := cfg.loadSources(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// loadSources applies the YAML sources file when it exists; a missing
// file keeps the built-in lineup.
func (c *Config) loadSources() error {
	data, err := os.ReadFile(c.SourcesConfigPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read sources config %s: %w", c.SourcesConfigPath, err)
	}

	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("cannot parse sources config %s: %w", c.SourcesConfigPath, err)
	}

	if len(file.History) > 0 {
		c.HistorySources = file.History
	}
	if len(file.World) > 0 {
		c.WorldSources = file.World
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if c.DailyHour < 0 || c.DailyHour > 23 {
		return fmt.Errorf("DAILY_SEND_HOUR must be 0..23")
	}
	if c.DailyMinute < 0 || c.DailyMinute > 59 {
		return fmt.Errorf("DAILY_SEND_MINUTE must be 0..59")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
