// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StrategyDirect  = "direct"
	StrategyBrowser = "browser"
)

type Config struct {
	//Fetching
	FetchStrategy string `yaml:"fetch_strategy"` //"direct" or "browser"
	PageSize      int    `yaml:"page_size"`
	Headless      bool   `yaml:"headless"`

	//Pacing (milliseconds); all delays are randomized within [min, max]
	PageDelayMinMs     int `yaml:"page_delay_min_ms"`
	PageDelayMaxMs     int `yaml:"page_delay_max_ms"`
	SubscriptionWaitMs int `yaml:"subscription_wait_ms"`

	//Stores
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	RedisURL    string `yaml:"redis_url" env:"REDIS_URL"`

	//Debugging
	ScreenshotDir string `yaml:"screenshot_dir"`

	//Enrichment
	EnrichNewJobs bool   `yaml:"enrich_new_jobs"`
	AIProvider    string `yaml:"ai_provider" env:"AI_PROVIDER"`
	OllamaURL     string `yaml:"ollama_url" env:"OLLAMA_URL"`
	OllamaModel   string `yaml:"ollama_model"`

	//Reporting (optional)
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	//Daemon mode
	ScrapeIntervalHours int `yaml:"scrape_interval_hours"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		cfg.AIProvider = provider
	}
	if ollamaURL := os.Getenv("OLLAMA_URL"); ollamaURL != "" {
		cfg.OllamaURL = ollamaURL
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.FetchStrategy == "" {
		cfg.FetchStrategy = StrategyBrowser
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 25
	}
	if cfg.PageDelayMinMs == 0 {
		cfg.PageDelayMinMs = 1000
	}
	if cfg.PageDelayMaxMs == 0 {
		cfg.PageDelayMaxMs = 4000
	}
	if cfg.SubscriptionWaitMs == 0 {
		cfg.SubscriptionWaitMs = 3000
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "logs/screenshots"
	}
	if cfg.AIProvider == "" {
		cfg.AIProvider = "ollama"
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = "http://localhost:11434"
	}
	if cfg.OllamaModel == "" {
		cfg.OllamaModel = "llama3.2"
	}
	if cfg.ScrapeIntervalHours == 0 {
		cfg.ScrapeIntervalHours = 6
	}

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.FetchStrategy != StrategyDirect && cfg.FetchStrategy != StrategyBrowser {
		log.Fatalf("Unknown fetch_strategy %q (want %q or %q)", cfg.FetchStrategy, StrategyDirect, StrategyBrowser)
	}

	return cfg
}

// PageDelay returns the randomized inter-page delay bounds as durations.
func (c *Config) PageDelay() (time.Duration, time.Duration) {
	return time.Duration(c.PageDelayMinMs) * time.Millisecond,
		time.Duration(c.PageDelayMaxMs) * time.Millisecond
}
