package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/cache"
	"github.com/opsxjacky/notion-ticker-sync/internal/config"
	"github.com/opsxjacky/notion-ticker-sync/internal/market"
	"github.com/opsxjacky/notion-ticker-sync/internal/notifier"
	"github.com/opsxjacky/notion-ticker-sync/internal/notion"
	"github.com/opsxjacky/notion-ticker-sync/internal/recorder"
	"github.com/opsxjacky/notion-ticker-sync/internal/scheduler"
	"github.com/opsxjacky/notion-ticker-sync/internal/syncer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] notion-ticker-sync starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init market data providers
	global := market.NewYahooFetcher(cfg.Proxy)
	domestic := market.NewEastmoneyFetcher(cfg.Proxy)
	log.Printf("[INFO] data sources: %s, %s", global.Name(), domestic.Name())

	// Init record store
	store := notion.NewClient(cfg.Notion.Token, cfg.Proxy)

	// Init day-keyed cache
	cacheStore, err := cache.NewStore(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("[FATAL] init cache: %v", err)
	}

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sync := &syncer.Syncer{
		Store:            store,
		Global:           global,
		Domestic:         domestic,
		Cache:            cacheStore,
		Proxies:          cfg.Proxies,
		Recorder:         rec,
		DatabaseID:       cfg.Notion.DatabaseID,
		TradesDatabaseID: cfg.Notion.TradesDatabaseID,
		Delay:            time.Duration(cfg.Sync.DelayMS) * time.Millisecond,
		BondYieldTickers: cfg.Sync.BondYieldTickers,
		BrokerLabel:      cfg.Sync.BrokerLabel,
	}

	sched := scheduler.NewScheduler(ctx, sync, tn)

	// No cron expression means a single sync run
	if cfg.Sync.DailyCron == "" {
		sched.RunNow()
		log.Println("[INFO] notion-ticker-sync finished")
		return
	}

	if err := sched.Register(cfg.Sync.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing sync now")
		go sched.RunNow()
	}

	log.Println("[INFO] notion-ticker-sync is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] notion-ticker-sync stopped")
}
