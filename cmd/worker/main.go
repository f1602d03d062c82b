package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobradar-automation/internal/browser"
	"go-jobradar-automation/internal/config"
	"go-jobradar-automation/internal/dedup"
	"go-jobradar-automation/internal/extract"
	"go-jobradar-automation/internal/filter"
	"go-jobradar-automation/internal/reporter"
	"go-jobradar-automation/internal/scheduler"
	"go-jobradar-automation/internal/selectors"
	"go-jobradar-automation/internal/session"
	"go-jobradar-automation/internal/store"
)

func main() {
	cfg := config.Load()
	if cfg.ScheduleSpec == "" {
		log.Fatal("schedule_spec is required for the worker (e.g. \"@every 6h\")")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer st.Close()

	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Failed to ensure schema: %v", err)
	}
	log.Println("✅ Store initialized.")

	factory := &browser.Factory{Opts: browser.Options{
		Headless:   cfg.Headless,
		NavTimeout: time.Duration(cfg.NavTimeoutMs) * time.Millisecond,
		MaxScrolls: cfg.MaxScrolls,
		UserAgents: cfg.UserAgents,
	}}
	acquire := func(ctx context.Context) (session.PageDriver, error) {
		return factory.Acquire(ctx)
	}

	classifier := filter.NewClassifier(cfg.RemoteKeywords, cfg.UrgentKeywords)
	extractor := extract.New(selectors.New(nil), classifier)
	cache := dedup.NewSeenCache(cfg.CachePath, 0)

	var rep session.Reporter
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := reporter.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram reporter disabled: %v", err)
		} else {
			rep = tg
			log.Println("🤖 Telegram reporter enabled.")
		}
	}

	svc := session.New(st, acquire, extractor, cache, rep, session.Options{
		DelayMin: time.Duration(cfg.DelayMinMs) * time.Millisecond,
		DelayMax: time.Duration(cfg.DelayMaxMs) * time.Millisecond,
	})
	svc.Start()

	sched := scheduler.New(svc, "worker", cfg.Search, cfg.ScheduleSpec)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	//block until interrupted, then drain
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("🛑 Shutting down...")

	sched.Stop()
	cancel()
	svc.Stop()
	log.Println("👋 Worker stopped.")
}
