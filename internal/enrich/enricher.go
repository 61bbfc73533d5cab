// Package enrich augments freshly inserted job records with the posting's
// full description and an AI-generated summary. Everything here is
// best-effort: a failed enrichment leaves placeholder fields behind and
// never disturbs the record itself.
package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/playwright-community/playwright-go"

	"go-zephyr-scraper/internal/ai"
	"go-zephyr-scraper/internal/fetch"
	"go-zephyr-scraper/utils"
)

const (
	//minimum text length for a selector hit to count as real content
	minContentLength = 50
	//fallback paragraph scan stops after this many blocks
	maxFallbackBlocks = 10
	//stored descriptions are capped to keep rows bounded
	maxDescriptionLength = 10000
	//summarization attempts before giving up with a placeholder
	summaryRetries = 3

	//annotation some models attach to requirements they guessed at
	inferredMarker = "(inferred)"

	placeholderSummary = "Summary unavailable."
)

// contentSelectors is the prioritized probe order for the description area.
// The target site renames these classes without notice; first non-trivial
// hit wins, and the table is trivially extendable when markup drifts.
var contentSelectors = []string{
	".show-more-less-html__markup",
	".description__text",
	".jobs-description__content",
	"#job-details",
	"article",
}

// RecordUpdater is the slice of the store the enricher is allowed to touch.
type RecordUpdater interface {
	UpdateEnrichment(ctx context.Context, jobID, description, summary string, requirements []string) error
}

type Enricher struct {
	session *fetch.Session
	client  ai.Client
	updater RecordUpdater
	sleeper utils.Sleeper
}

func New(session *fetch.Session, client ai.Client, updater RecordUpdater, sleeper utils.Sleeper) *Enricher {
	return &Enricher{
		session: session,
		client:  client,
		updater: updater,
		sleeper: sleeper,
	}
}

// Enrich opens the posting's detail page, extracts the description text,
// summarizes it and writes description/ai_summary/ai_requirements back.
// A page that yields no text is a no-op, not an error.
func (e *Enricher) Enrich(ctx context.Context, jobID, url string) error {
	page, err := e.session.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create detail page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("failed to load detail page: %w", err)
	}

	//brief settle time for dynamically injected content
	e.sleeper.Pause(1*time.Second, 2*time.Second)

	text := extractDetailText(page)
	if text == "" {
		log.Printf("    ℹ️ No description text found for job %s, skipping enrichment", jobID)
		return nil
	}
	text = truncate(text, maxDescriptionLength)

	summary := SummarizeWithRetry(ctx, e.client, text)

	if err := e.updater.UpdateEnrichment(ctx, jobID, text, summary.Summary, summary.Requirements); err != nil {
		return fmt.Errorf("failed to persist enrichment: %w", err)
	}

	//pace detail-page hits within a run
	e.sleeper.Pause(500*time.Millisecond, 2*time.Second)
	return nil
}

// extractDetailText probes the content selector table in order, then falls
// back to stitching together generic paragraph/list blocks.
func extractDetailText(page playwright.Page) string {
	for _, selector := range contentSelectors {
		el := page.Locator(selector).First()
		count, err := el.Count()
		if err != nil || count == 0 {
			continue
		}
		text, err := el.InnerText()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) >= minContentLength {
			return text
		}
	}

	//fallback: concatenate short generic blocks
	blocks, err := page.Locator("p, li").All()
	if err != nil {
		return ""
	}

	var parts []string
	for _, block := range blocks {
		if len(parts) >= maxFallbackBlocks {
			break
		}
		text, err := block.InnerText()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

// SummarizeWithRetry calls the summarization service up to summaryRetries
// times and degrades to a placeholder result. It never returns an error:
// enrichment failures must not block anything upstream.
func SummarizeWithRetry(ctx context.Context, client ai.Client, text string) *ai.Summary {
	for attempt := 1; attempt <= summaryRetries; attempt++ {
		summary, err := client.Summarize(ctx, text)
		if err != nil {
			log.Printf("    ⚠️ Summarization attempt %d/%d failed: %v", attempt, summaryRetries, err)
			continue
		}
		summary.Requirements = FilterRequirements(summary.Requirements)
		return summary
	}

	return &ai.Summary{
		Summary:      placeholderSummary,
		Requirements: []string{},
	}
}

// FilterRequirements strips the inferred-marker annotation and drops
// entries that end up empty.
func FilterRequirements(requirements []string) []string {
	filtered := make([]string, 0, len(requirements))
	for _, req := range requirements {
		req = strings.ReplaceAll(req, inferredMarker, "")
		req = strings.TrimSpace(req)
		if req != "" {
			filtered = append(filtered, req)
		}
	}
	return filtered
}

// truncate caps text at limit bytes without splitting a multibyte rune;
// an invalid UTF-8 tail would be rejected by the database on write.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
