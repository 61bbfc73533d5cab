// Package orchestrator drives a full scrape run: load the active search
// subscriptions, fetch and normalize listings for each, insert whatever is
// genuinely new and hand fresh records to the enricher.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-zephyr-scraper/internal/fetch"
	"go-zephyr-scraper/internal/models"
	"go-zephyr-scraper/internal/normalize"
	"go-zephyr-scraper/utils"
)

// JobStore is the slice of the persistence layer the runner needs.
type JobStore interface {
	LoadActiveSubscriptions(ctx context.Context) ([]models.SearchSubscription, error)
	FindJobIDByDedupKey(ctx context.Context, userID, source, dedupKey string) (string, bool, error)
	InsertJob(ctx context.Context, job *models.JobRecord) (bool, error)
}

// SeenCache is an optional fast path in front of the database dedup check.
// Cache misses fall through to the store, so it is never authoritative.
type SeenCache interface {
	IsSeen(ctx context.Context, userID, source, dedupKey string) bool
	MarkSeen(ctx context.Context, userID, source, dedupKey string)
}

// Enricher augments a freshly inserted record, best-effort.
type Enricher interface {
	Enrich(ctx context.Context, jobID, url string) error
}

// Notifier receives the end-of-run summary.
type Notifier interface {
	NotifyRunComplete(stats RunStats) error
}

// RunStats accumulates counters across one full run.
type RunStats struct {
	Subscriptions int
	Failed        int
	Fetched       int
	Inserted      int
	Skipped       int
	Duration      time.Duration
}

type Runner struct {
	fetcher  fetch.Fetcher
	store    JobStore
	cache    SeenCache
	enricher Enricher
	notifier Notifier
	sleeper  utils.Sleeper
	//pause between subscriptions, spread over [wait, 2*wait]
	subscriptionWait time.Duration
}

func NewRunner(fetcher fetch.Fetcher, store JobStore, sleeper utils.Sleeper, subscriptionWait time.Duration) *Runner {
	return &Runner{
		fetcher:          fetcher,
		store:            store,
		sleeper:          sleeper,
		subscriptionWait: subscriptionWait,
	}
}

// WithCache attaches the optional seen-cache fast path.
func (r *Runner) WithCache(cache SeenCache) *Runner {
	r.cache = cache
	return r
}

// WithEnricher attaches the optional post-insert enrichment step.
func (r *Runner) WithEnricher(enricher Enricher) *Runner {
	r.enricher = enricher
	return r
}

// WithNotifier attaches the optional end-of-run report sink.
func (r *Runner) WithNotifier(notifier Notifier) *Runner {
	r.notifier = notifier
	return r
}

// Run executes one complete scrape cycle. Failing to load subscriptions is
// the only fatal condition; a broken subscription is logged, counted and
// skipped so the rest of the run proceeds.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	var stats RunStats

	subs, err := r.store.LoadActiveSubscriptions(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to load active subscriptions: %w", err)
	}
	stats.Subscriptions = len(subs)

	if len(subs) == 0 {
		log.Println("ℹ️ No active search subscriptions, nothing to do")
		return stats, nil
	}

	log.Printf("🚀 Starting run for %d subscription(s) via %s", len(subs), r.fetcher.Name())

	for i, sub := range subs {
		log.Printf("🔍 [%d/%d] %q in %q (user %s, %d page(s))", i+1, len(subs), sub.Keywords, sub.Location, sub.UserID, sub.Pages)

		if err := r.processSubscription(ctx, sub, &stats); err != nil {
			stats.Failed++
			log.Printf("❌ Subscription %s failed: %v", sub.ID, err)
		}

		if i < len(subs)-1 {
			r.sleeper.Pause(r.subscriptionWait, 2*r.subscriptionWait)
		}
	}

	stats.Duration = time.Since(start)
	log.Printf("✅ Run complete: %d new, %d skipped, %d fetched in %s", stats.Inserted, stats.Skipped, stats.Fetched, stats.Duration.Round(time.Second))

	if r.notifier != nil {
		if err := r.notifier.NotifyRunComplete(stats); err != nil {
			log.Printf("⚠️ Failed to send run report: %v", err)
		}
	}

	return stats, nil
}

func (r *Runner) processSubscription(ctx context.Context, sub models.SearchSubscription, stats *RunStats) error {
	query := fetch.SearchQuery{
		Keywords: sub.Keywords,
		Location: sub.Location,
		Pages:    sub.Pages,
	}

	fragments, err := r.fetcher.Fetch(ctx, query)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	stats.Fetched += len(fragments)

	now := time.Now()
	var fresh []*models.JobRecord
	for _, frag := range fragments {
		record, ok := normalize.Normalize(frag, sub, now)
		if !ok {
			stats.Skipped++
			continue
		}

		if r.cache != nil && r.cache.IsSeen(ctx, record.UserID, record.Source, record.DedupKey) {
			stats.Skipped++
			continue
		}

		if _, exists, err := r.store.FindJobIDByDedupKey(ctx, record.UserID, record.Source, record.DedupKey); err != nil {
			log.Printf("    ⚠️ Dedup lookup failed for %q: %v", record.Title, err)
			continue
		} else if exists {
			stats.Skipped++
			if r.cache != nil {
				r.cache.MarkSeen(ctx, record.UserID, record.Source, record.DedupKey)
			}
			continue
		}

		inserted, err := r.store.InsertJob(ctx, record)
		if err != nil {
			log.Printf("    ⚠️ Insert failed for %q: %v", record.Title, err)
			continue
		}
		if !inserted {
			//lost a race with a concurrent run
			stats.Skipped++
			continue
		}

		stats.Inserted++
		log.Printf("    💾 Saved %q at %s", record.Title, record.Company)

		if r.cache != nil {
			r.cache.MarkSeen(ctx, record.UserID, record.Source, record.DedupKey)
		}

		fresh = append(fresh, record)
	}

	//enrichment starts only after every new record for this subscription is
	//inserted; identities are re-queried because inserts assign them
	if r.enricher != nil {
		for _, record := range fresh {
			jobID, found, err := r.store.FindJobIDByDedupKey(ctx, record.UserID, record.Source, record.DedupKey)
			if err != nil || !found {
				log.Printf("    ⚠️ Could not resolve id for enrichment of %q", record.Title)
				continue
			}
			if err := r.enricher.Enrich(ctx, jobID, record.URL); err != nil {
				log.Printf("    ⚠️ Enrichment failed for %q: %v", record.Title, err)
			}
		}
	}

	return nil
}
