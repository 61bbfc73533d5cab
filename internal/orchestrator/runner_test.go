package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-zephyr-scraper/internal/fetch"
	"go-zephyr-scraper/internal/models"
	"go-zephyr-scraper/utils"
)

type fakeFetcher struct {
	fragments map[string][]models.RawFragment
	failOn    string
}

func (f *fakeFetcher) Fetch(ctx context.Context, q fetch.SearchQuery) ([]models.RawFragment, error) {
	if q.Keywords == f.failOn {
		return nil, errors.New("target unreachable")
	}
	return f.fragments[q.Keywords], nil
}

func (f *fakeFetcher) Name() string { return "fake" }

type memoryStore struct {
	subs     []models.SearchSubscription
	subsErr  error
	records  map[string]*models.JobRecord
	inserted int
}

func newMemoryStore(subs ...models.SearchSubscription) *memoryStore {
	return &memoryStore{subs: subs, records: make(map[string]*models.JobRecord)}
}

func (m *memoryStore) dedupKey(userID, source, key string) string {
	return userID + "|" + source + "|" + key
}

func (m *memoryStore) LoadActiveSubscriptions(ctx context.Context) ([]models.SearchSubscription, error) {
	if m.subsErr != nil {
		return nil, m.subsErr
	}
	return m.subs, nil
}

func (m *memoryStore) FindJobIDByDedupKey(ctx context.Context, userID, source, dedupKey string) (string, bool, error) {
	rec, ok := m.records[m.dedupKey(userID, source, dedupKey)]
	if !ok {
		return "", false, nil
	}
	return rec.ID, true, nil
}

func (m *memoryStore) InsertJob(ctx context.Context, job *models.JobRecord) (bool, error) {
	key := m.dedupKey(job.UserID, job.Source, job.DedupKey)
	if _, exists := m.records[key]; exists {
		return false, nil
	}
	m.inserted++
	stored := *job
	stored.ID = fmt.Sprintf("job-%d", m.inserted)
	m.records[key] = &stored
	return true, nil
}

type recordingEnricher struct {
	calls []string
}

func (r *recordingEnricher) Enrich(ctx context.Context, jobID, url string) error {
	r.calls = append(r.calls, jobID)
	return nil
}

func subscription(keywords string) models.SearchSubscription {
	return models.SearchSubscription{
		ID:       "sub-" + keywords,
		UserID:   "user-1",
		Keywords: keywords,
		Location: "Berlin",
		Pages:    1,
		Active:   true,
	}
}

func fragment(title string) models.RawFragment {
	return models.RawFragment{
		Title:        title,
		Subtitle:     "Acme GmbH",
		LocationText: "Berlin, Germany",
		URL:          "https://example.com/jobs/view/" + title,
	}
}

func TestRunInsertsNewListings(t *testing.T) {
	store := newMemoryStore(subscription("golang"))
	fetcher := &fakeFetcher{fragments: map[string][]models.RawFragment{
		"golang": {fragment("Backend Engineer"), fragment("Platform Engineer")},
	}}

	runner := NewRunner(fetcher, store, utils.ZeroSleeper{}, 0)
	stats, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Subscriptions)
	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
}

func TestRunIsIdempotent(t *testing.T) {
	store := newMemoryStore(subscription("golang"))
	fetcher := &fakeFetcher{fragments: map[string][]models.RawFragment{
		"golang": {fragment("Backend Engineer")},
	}}

	runner := NewRunner(fetcher, store, utils.ZeroSleeper{}, 0)

	first, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	second, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 1, store.inserted)
}

func TestRunSurvivesFailedSubscription(t *testing.T) {
	store := newMemoryStore(subscription("broken"), subscription("golang"))
	fetcher := &fakeFetcher{
		failOn: "broken",
		fragments: map[string][]models.RawFragment{
			"golang": {fragment("Backend Engineer")},
		},
	}

	runner := NewRunner(fetcher, store, utils.ZeroSleeper{}, 0)
	stats, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Inserted)
}

func TestRunFailsWhenSubscriptionsUnavailable(t *testing.T) {
	store := newMemoryStore()
	store.subsErr = errors.New("connection refused")

	runner := NewRunner(&fakeFetcher{}, store, utils.ZeroSleeper{}, 0)
	_, err := runner.Run(context.Background())

	assert.Error(t, err)
}

func TestRunSkipsUnusableFragments(t *testing.T) {
	store := newMemoryStore(subscription("golang"))
	fetcher := &fakeFetcher{fragments: map[string][]models.RawFragment{
		"golang": {
			fragment("Backend Engineer"),
			{Title: "Promo card without company"},
		},
	}}

	runner := NewRunner(fetcher, store, utils.ZeroSleeper{}, 0)
	stats, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
}

// insertOrderEnricher records how many inserts had landed when each
// enrichment call arrived.
type insertOrderEnricher struct {
	store          *memoryStore
	insertedAtCall []int
}

func (e *insertOrderEnricher) Enrich(ctx context.Context, jobID, url string) error {
	e.insertedAtCall = append(e.insertedAtCall, e.store.inserted)
	return nil
}

func TestRunEnrichesOnlyAfterAllInserts(t *testing.T) {
	store := newMemoryStore(subscription("golang"))
	fetcher := &fakeFetcher{fragments: map[string][]models.RawFragment{
		"golang": {fragment("Backend Engineer"), fragment("Platform Engineer"), fragment("SRE")},
	}}
	enricher := &insertOrderEnricher{store: store}

	runner := NewRunner(fetcher, store, utils.ZeroSleeper{}, 0).WithEnricher(enricher)
	_, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 3}, enricher.insertedAtCall)
}

func TestRunEnrichesFreshRecords(t *testing.T) {
	store := newMemoryStore(subscription("golang"))
	fetcher := &fakeFetcher{fragments: map[string][]models.RawFragment{
		"golang": {fragment("Backend Engineer")},
	}}
	enricher := &recordingEnricher{}

	runner := NewRunner(fetcher, store, utils.ZeroSleeper{}, 0).WithEnricher(enricher)
	_, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"job-1"}, enricher.calls)
}
