package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/notion-ticker-sync/internal/resolver"
)

// Config holds all application configuration.
type Config struct {
	Notion struct {
		Token            string `yaml:"token"`
		DatabaseID       string `yaml:"database_id"`
		TradesDatabaseID string `yaml:"trades_database_id"`
	} `yaml:"notion"`
	Sync struct {
		DelayMS          int      `yaml:"delay_ms"`
		DailyCron        string   `yaml:"daily_cron"`
		BondYieldTickers []string `yaml:"bond_yield_tickers"`
		BrokerLabel      string   `yaml:"broker_label"`
	} `yaml:"sync"`
	Cache struct {
		Dir string `yaml:"dir"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy   string                `yaml:"proxy"`
	Proxies *resolver.ProxyTables `yaml:"proxies"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("DATABASE_ID"); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := os.Getenv("TRADES_DATABASE_ID"); v != "" {
		cfg.Notion.TradesDatabaseID = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("SYNC_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Sync.DelayMS = ms
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Sync.DailyCron = v
	}

	// Defaults
	if cfg.Sync.DelayMS == 0 {
		cfg.Sync.DelayMS = 500
	}
	if len(cfg.Sync.BondYieldTickers) == 0 {
		cfg.Sync.BondYieldTickers = []string{"511520", "511260"}
	}
	if cfg.Sync.BrokerLabel == "" {
		cfg.Sync.BrokerLabel = "平安"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "data/cache"
	}
	if cfg.Proxies == nil {
		cfg.Proxies = resolver.DefaultProxyTables()
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("notion.token is required")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required")
	}
	return nil
}
