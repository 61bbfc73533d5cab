// Define an interface for all fetch strategies
// Ensure consistency

package fetch

import (
	"context"
	"strings"

	"go-zephyr-scraper/internal/models"
)

// SearchQuery is one page-bounded listing search, taken from a subscription.
type SearchQuery struct {
	Keywords string
	Location string
	Pages    int
}

//Fetcher defines the contract both strategies implement: retrieve raw
//listing fragments for a query. Implementations tolerate missing nodes and
//page timeouts; a returned error means the whole call produced nothing.
type Fetcher interface {
	//Fetch collects fragments across all requested pages
	Fetch(ctx context.Context, q SearchQuery) ([]models.RawFragment, error)

	//Name is the strategy name for logs
	Name() string
}

// canonicalURL strips query parameters. Listing URLs carry dynamic tracking
// params (?refId=..., ?trackingId=...) which make the same job look like
// different URLs, breaking deduplication.
func canonicalURL(raw string) string {
	parts := strings.SplitN(raw, "?", 2)
	return parts[0]
}

// externalID pulls the site-assigned posting id off the canonical URL tail.
func externalID(raw string) string {
	clean := canonicalURL(raw)
	clean = strings.TrimSuffix(clean, "/")
	idx := strings.LastIndex(clean, "/")
	if idx < 0 {
		return ""
	}
	return clean[idx+1:]
}
