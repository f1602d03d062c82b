package main

import (
	"context"
	"log"
	"time"

	"go-jobradar-automation/internal/browser"
	"go-jobradar-automation/internal/config"
	"go-jobradar-automation/internal/dedup"
	"go-jobradar-automation/internal/extract"
	"go-jobradar-automation/internal/filter"
	"go-jobradar-automation/internal/reporter"
	"go-jobradar-automation/internal/selectors"
	"go-jobradar-automation/internal/session"
	"go-jobradar-automation/internal/store"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Search: %v @ %q", cfg.Search.Keywords, cfg.Search.Location)

	//session-wide timeout covers the whole run
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	//connect store; the handle is owned here and released at shutdown
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer st.Close()

	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Failed to ensure schema: %v", err)
	}
	log.Println("✅ Store initialized.")

	svc := buildService(cfg, st)
	svc.Start()
	defer svc.Stop()

	id, err := svc.StartSession(ctx, "cli", cfg.Search)
	if err != nil {
		log.Fatalf("❌ Failed to start session: %v", err)
	}
	log.Printf("🚀 Session %s started.", id)

	//poll until the session reaches a terminal state
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			svc.CancelSession(context.Background(), id)
			log.Fatalf("❌ Run timed out, session cancelled")
		case <-ticker.C:
			s, err := svc.GetSessionStatus(ctx, id)
			if err != nil {
				log.Fatalf("❌ Failed to read session status: %v", err)
			}
			if s.Status.Terminal() {
				log.Printf("🏁 Session %s: pages=%d found=%d saved=%d duplicates=%d errors=%d",
					s.Status, s.Stats.PagesScraped, s.Stats.JobsFound,
					s.Stats.JobsSaved, s.Stats.Duplicates, s.Stats.ErrorsCount)
				return
			}
		}
	}
}

func buildService(cfg *config.Config, st store.Store) *session.Service {
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

	return session.New(st, acquire, extractor, cache, rep, session.Options{
		DelayMin: time.Duration(cfg.DelayMinMs) * time.Millisecond,
		DelayMax: time.Duration(cfg.DelayMaxMs) * time.Millisecond,
	})
}
