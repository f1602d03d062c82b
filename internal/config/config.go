// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobradar-automation/internal/models"
)

type Config struct {
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	//default search used by the one-shot CLI and the scheduler
	Search models.SearchParams `yaml:"search"`

	//scraping behavior
	MaxPages     int  `yaml:"max_pages"`
	Headless     bool `yaml:"headless"`
	DelayMinMs   int  `yaml:"delay_min_ms"`
	DelayMaxMs   int  `yaml:"delay_max_ms"`
	NavTimeoutMs int  `yaml:"nav_timeout_ms"`
	MaxScrolls   int  `yaml:"max_scrolls"`

	//keyword sets for the remote/urgent classifiers; empty keeps the defaults
	RemoteKeywords []string `yaml:"remote_keywords"`
	UrgentKeywords []string `yaml:"urgent_keywords"`

	//user agent rotation pool; empty keeps the defaults
	UserAgents []string `yaml:"user_agents"`

	//recurring scrape schedule, e.g. "@every 6h"; empty disables the scheduler
	ScheduleSpec string `yaml:"schedule_spec"`

	//paths
	CachePath string `yaml:"cache_path"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{Headless: true}

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
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	if cfg.DelayMinMs <= 0 {
		cfg.DelayMinMs = 2000
	}
	if cfg.DelayMaxMs <= cfg.DelayMinMs {
		cfg.DelayMaxMs = cfg.DelayMinMs + 3000
	}
	if cfg.NavTimeoutMs <= 0 {
		cfg.NavTimeoutMs = 30000
	}
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 3
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.Search.MaxPages <= 0 {
		cfg.Search.MaxPages = cfg.MaxPages
	}

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}
