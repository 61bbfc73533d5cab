package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-zephyr-scraper/internal/ai"
	"go-zephyr-scraper/internal/config"
	"go-zephyr-scraper/internal/enrich"
	"go-zephyr-scraper/internal/fetch"
	"go-zephyr-scraper/internal/orchestrator"
	"go-zephyr-scraper/internal/reporter"
	"go-zephyr-scraper/internal/scheduler"
	"go-zephyr-scraper/internal/store"
	"go-zephyr-scraper/utils"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep running and scrape on a fixed interval")
	flag.Parse()

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Strategy: %s, enrichment: %v", cfg.FetchStrategy, cfg.EnrichNewJobs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//connect to postgres; nothing works without it
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("🗄️ Database connected.")

	//optional redis seen-cache
	var cache *store.SeenCache
	if cfg.RedisURL != "" {
		cache, err = store.NewSeenCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, continuing without seen-cache: %v", err)
			cache = nil
		} else {
			defer cache.Close()
			log.Println("⚡ Seen-cache connected.")
		}
	}

	sleeper := utils.RandomSleeper{}

	//a browser session is needed for the stealth strategy and for
	//detail-page enrichment; skip the launch entirely otherwise
	var session *fetch.Session
	if cfg.FetchStrategy == config.StrategyBrowser || cfg.EnrichNewJobs {
		session, err = fetch.NewSession(cfg.Headless)
		if err != nil {
			log.Fatalf("❌ Failed to launch browser: %v", err)
		}
		defer session.Close()
		log.Println("✅ Browser initialized successfully!")
	}

	delayMin, delayMax := cfg.PageDelay()

	var fetcher fetch.Fetcher
	switch cfg.FetchStrategy {
	case config.StrategyBrowser:
		debugger := utils.NewScreenShotDebugger(cfg.ScreenshotDir)
		fetcher = fetch.NewBrowserFetcher(session, sleeper, debugger, cfg.PageSize, delayMin, delayMax)
	case config.StrategyDirect:
		fetcher = fetch.NewDirectFetcher(sleeper, cfg.PageSize, delayMin, delayMax)
	}

	runner := orchestrator.NewRunner(fetcher, db, sleeper, time.Duration(cfg.SubscriptionWaitMs)*time.Millisecond)
	if cache != nil {
		runner.WithCache(cache)
	}

	if cfg.EnrichNewJobs {
		aiClient := ai.NewClient(cfg.AIProvider, cfg.OllamaURL, cfg.OllamaModel)
		runner.WithEnricher(enrich.New(session, aiClient, db, sleeper))
		log.Printf("🤖 Enrichment enabled (%s via %s)", cfg.OllamaModel, cfg.OllamaURL)
	}

	if cfg.TelegramToken != "" {
		tg, err := reporter.NewTelegramReporter(cfg)
		if err != nil {
			log.Printf("⚠️ Telegram reporter unavailable: %v", err)
		} else {
			runner.WithNotifier(tg)
			log.Println("🤖 Telegram reporter initialized.")
		}
	}

	if *daemon {
		runDaemon(ctx, cancel, runner, cfg.ScrapeIntervalHours)
		return
	}

	stats, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}
	log.Printf("🏁 Done. %d new job(s) saved.", stats.Inserted)
}

func runDaemon(ctx context.Context, cancel context.CancelFunc, runner *orchestrator.Runner, intervalHours int) {
	sched := scheduler.New(runner, intervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	//block until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("👋 Shutting down...")
	cancel()
}
