package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"go-zephyr-scraper/internal/ai"
)

// flakyClient fails a fixed number of times before answering.
type flakyClient struct {
	failures int
	calls    int
	result   *ai.Summary
}

func (c *flakyClient) Summarize(ctx context.Context, description string) (*ai.Summary, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, errors.New("model returned malformed output")
	}
	return c.result, nil
}

func TestSummarizeWithRetrySucceedsFirstTry(t *testing.T) {
	client := &flakyClient{
		result: &ai.Summary{Summary: "Backend role focused on Go services.", Requirements: []string{"Go", "PostgreSQL"}},
	}

	summary := SummarizeWithRetry(context.Background(), client, "some description")

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "Backend role focused on Go services.", summary.Summary)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, summary.Requirements)
}

func TestSummarizeWithRetryRecoversFromFailures(t *testing.T) {
	client := &flakyClient{
		failures: 2,
		result:   &ai.Summary{Summary: "Frontend role.", Requirements: []string{"React"}},
	}

	summary := SummarizeWithRetry(context.Background(), client, "some description")

	assert.Equal(t, 3, client.calls)
	assert.Equal(t, "Frontend role.", summary.Summary)
}

func TestSummarizeWithRetryDegradesToPlaceholder(t *testing.T) {
	client := &flakyClient{failures: 10}

	summary := SummarizeWithRetry(context.Background(), client, "some description")

	assert.Equal(t, summaryRetries, client.calls)
	assert.Equal(t, placeholderSummary, summary.Summary)
	assert.Empty(t, summary.Requirements)
	assert.NotNil(t, summary.Requirements)
}

func TestFilterRequirements(t *testing.T) {
	got := FilterRequirements([]string{
		"5+ years of Go (inferred)",
		"(inferred)",
		"  Kubernetes  ",
		"",
		"SQL",
	})

	assert.Equal(t, []string{"5+ years of Go", "Kubernetes", "SQL"}, got)
}

func TestTruncateCapsLongText(t *testing.T) {
	long := strings.Repeat("a", maxDescriptionLength+500)
	assert.Len(t, truncate(long, maxDescriptionLength), maxDescriptionLength)

	short := "short description"
	assert.Equal(t, short, truncate(short, maxDescriptionLength))
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	//"é" is two bytes and straddles the cap here
	text := strings.Repeat("a", maxDescriptionLength-1) + "é"
	got := truncate(text, maxDescriptionLength)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxDescriptionLength-1), got)
}
