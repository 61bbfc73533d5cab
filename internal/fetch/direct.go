package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-zephyr-scraper/internal/models"
	"go-zephyr-scraper/utils"
)

// guest search endpoint; serves one page of rendered listing cards per
// request, paginated by a start offset
const directSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

const directUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DirectFetcher issues plain HTTP requests and parses the returned markup.
// Faster than the browser strategy and needs no script execution, but the
// endpoint blocks aggressive callers quickly.
type DirectFetcher struct {
	client   *http.Client
	sleeper  utils.Sleeper
	pageSize int
	delayMin time.Duration
	delayMax time.Duration
}

func NewDirectFetcher(sleeper utils.Sleeper, pageSize int, delayMin, delayMax time.Duration) *DirectFetcher {
	return &DirectFetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		sleeper:  sleeper,
		pageSize: pageSize,
		delayMin: delayMin,
		delayMax: delayMax,
	}
}

func (f *DirectFetcher) Name() string {
	return "Direct"
}

func (f *DirectFetcher) Fetch(ctx context.Context, q SearchQuery) ([]models.RawFragment, error) {
	var fragments []models.RawFragment

	for page := 0; page < q.Pages; page++ {
		if ctx.Err() != nil {
			return fragments, ctx.Err()
		}

		log.Printf("  🔍 Page %d/%d for %q in %q", page+1, q.Pages, q.Keywords, q.Location)

		batch, err := f.fetchPage(ctx, q, page)
		if err != nil {
			//page-scoped failure: log and move to the next page index
			log.Printf("    ⚠️ Error fetching page %d: %v", page+1, err)
			continue
		}
		fragments = append(fragments, batch...)

		//inter-page delay to bound request rate
		f.sleeper.Pause(f.delayMin, f.delayMax)
	}

	return fragments, nil
}

func (f *DirectFetcher) fetchPage(ctx context.Context, q SearchQuery, page int) ([]models.RawFragment, error) {
	params := url.Values{}
	params.Set("keywords", q.Keywords)
	params.Set("location", q.Location)
	params.Set("trk", "public_jobs_jobs-search-bar_search-submit")
	params.Set("start", strconv.Itoa(page*f.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", directUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}

	return parseListingDocument(doc, q.Location), nil
}

// parseListingDocument walks the listing cards of one result page. A card
// missing its link node is skipped, not an error.
func parseListingDocument(doc *goquery.Document, fallbackLocation string) []models.RawFragment {
	var fragments []models.RawFragment

	doc.Find("li").Each(func(_ int, card *goquery.Selection) {
		link := card.Find(`a[data-tracking-control-name="public_jobs_jserp-result_search-card"]`).First()
		if link.Length() == 0 {
			link = card.Find("a.base-card__full-link").First()
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}

		frag := models.RawFragment{
			Title:        strings.TrimSpace(card.Find("h3.base-search-card__title").First().Text()),
			Subtitle:     strings.TrimSpace(card.Find("h4.base-search-card__subtitle").First().Text()),
			LocationText: strings.TrimSpace(card.Find("span.job-search-card__location").First().Text()),
			SalaryText:   strings.TrimSpace(card.Find("span.job-search-card__salary-info").First().Text()),
			PostedText:   strings.TrimSpace(card.Find("time.job-search-card__listdate").First().Text()),
			MetadataText: strings.TrimSpace(card.Find("div.base-search-card__metadata").First().Text()),
			URL:          canonicalURL(href),
			ExternalID:   externalID(href),
		}
		if frag.LocationText == "" {
			frag.LocationText = fallbackLocation
		}

		fragments = append(fragments, frag)
	})

	return fragments
}
