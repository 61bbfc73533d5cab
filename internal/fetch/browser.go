package fetch

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-zephyr-scraper/internal/models"
	"go-zephyr-scraper/utils"
)

const browserSearchURL = "https://www.linkedin.com/jobs/search/"

// BrowserFetcher drives a stealth browser context through the rendered
// search UI. Slower than the direct strategy but survives anti-bot defenses
// far longer.
type BrowserFetcher struct {
	session  *Session
	sleeper  utils.Sleeper
	debugger *utils.ScreenShotDebugger
	pageSize int
	delayMin time.Duration
	delayMax time.Duration
}

func NewBrowserFetcher(session *Session, sleeper utils.Sleeper, debugger *utils.ScreenShotDebugger, pageSize int, delayMin, delayMax time.Duration) *BrowserFetcher {
	return &BrowserFetcher{
		session:  session,
		sleeper:  sleeper,
		debugger: debugger,
		pageSize: pageSize,
		delayMin: delayMin,
		delayMax: delayMax,
	}
}

func (f *BrowserFetcher) Name() string {
	return "Browser"
}

func (f *BrowserFetcher) Fetch(ctx context.Context, q SearchQuery) ([]models.RawFragment, error) {
	page, err := f.session.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	var fragments []models.RawFragment

	for pageNum := 0; pageNum < q.Pages; pageNum++ {
		if ctx.Err() != nil {
			return fragments, ctx.Err()
		}

		searchURL := f.buildSearchURL(q, pageNum)
		log.Printf("  🔍 Page %d/%d: %s", pageNum+1, q.Pages, searchURL)

		//look busy before the navigation, not only after
		MouseJiggle(page, f.sleeper)

		if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(30000),
		}); err != nil {
			log.Printf("    ⚠️ Error on page %d: %v", pageNum+1, err)
			continue
		}

		if f.isBlocked(page) {
			if _, err := f.debugger.CaptureAndLog(page, "search-blocked", "🚨 Search page blocked by anti-bot challenge"); err != nil {
				log.Printf("    ⚠️ Could not capture block evidence: %v", err)
			}
			continue
		}

		if _, err := page.WaitForSelector(".job-search-card", playwright.PageWaitForSelectorOptions{
			Timeout: playwright.Float(10000),
		}); err != nil {
			log.Printf("    ⚠️ Job cards not found on page %d, skipping", pageNum+1)
			continue
		}

		//read the page like a person would
		f.sleeper.Pause(1*time.Second, 2*time.Second)
		HumanScroll(page, f.sleeper)

		batch := f.collectCards(page, q.Location)
		log.Printf("    📦 Found %d job cards", len(batch))
		fragments = append(fragments, batch...)

		//inter-page delay to bound request rate
		f.sleeper.Pause(f.delayMin, f.delayMax)
	}

	return fragments, nil
}

func (f *BrowserFetcher) buildSearchURL(q SearchQuery, pageNum int) string {
	params := url.Values{}
	params.Set("keywords", q.Keywords)
	params.Set("location", q.Location)
	params.Set("start", strconv.Itoa(pageNum*f.pageSize))
	return browserSearchURL + "?" + params.Encode()
}

// isBlocked sniffs interstitial challenge pages by title.
func (f *BrowserFetcher) isBlocked(page playwright.Page) bool {
	title, err := page.Title()
	if err != nil {
		return false
	}
	for _, marker := range []string{"Just a moment", "Attention Required", "Security Verification"} {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

// collectCards extracts raw fragments from the rendered card list. A card
// missing its link is skipped; every other field is best-effort.
func (f *BrowserFetcher) collectCards(page playwright.Page, fallbackLocation string) []models.RawFragment {
	cards, err := page.Locator(".job-search-card").All()
	if err != nil {
		log.Printf("    ⚠️ Error finding job cards: %v", err)
		return nil
	}

	var fragments []models.RawFragment
	for _, card := range cards {
		linkEl := card.Locator("a.base-card__full-link").First()
		href, err := linkEl.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}

		title, _ := card.Locator(".base-search-card__title").First().TextContent()
		company, _ := card.Locator(".base-search-card__subtitle").First().TextContent()
		location, _ := card.Locator(".job-search-card__location").First().TextContent()

		frag := models.RawFragment{
			Title:        strings.TrimSpace(title),
			Subtitle:     strings.TrimSpace(company),
			LocationText: strings.TrimSpace(location),
			URL:          canonicalURL(href),
			ExternalID:   externalID(href),
		}

		//optional blocks, absent on many cards
		if salaryEl := card.Locator(".job-search-card__salary-info").First(); salaryEl != nil {
			if count, _ := salaryEl.Count(); count > 0 {
				text, _ := salaryEl.TextContent()
				frag.SalaryText = strings.TrimSpace(text)
			}
		}
		if postedEl := card.Locator("time.job-search-card__listdate").First(); postedEl != nil {
			if count, _ := postedEl.Count(); count > 0 {
				text, _ := postedEl.TextContent()
				frag.PostedText = strings.TrimSpace(text)
			}
		}
		if metaEl := card.Locator(".base-search-card__metadata").First(); metaEl != nil {
			if count, _ := metaEl.Count(); count > 0 {
				text, _ := metaEl.TextContent()
				frag.MetadataText = strings.TrimSpace(text)
			}
		}

		if frag.LocationText == "" {
			frag.LocationText = fallbackLocation
		}

		fragments = append(fragments, frag)
	}

	return fragments
}
