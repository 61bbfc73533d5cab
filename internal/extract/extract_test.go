package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		expected Salary
	}{
		{
			name:     "range with K suffix",
			text:     "$80K - $120K",
			wantOK:   true,
			expected: Salary{Min: 80000, Max: 120000, Currency: "USD"},
		},
		{
			name:     "single figure with commas",
			text:     "$95,000",
			wantOK:   true,
			expected: Salary{Min: 95000, Max: 95000, Currency: "USD"},
		},
		{
			name:     "no currency symbol",
			text:     "60k - 80k a year",
			wantOK:   true,
			expected: Salary{Min: 60000, Max: 80000, Currency: ""},
		},
		{
			name:   "empty input",
			text:   "",
			wantOK: false,
		},
		{
			name:   "no numbers at all",
			text:   "Competitive salary",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSalary(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParsePostedDate(t *testing.T) {
	now := time.Now()

	t.Run("days ago", func(t *testing.T) {
		got, ok := ParsePostedDate("3 days ago", now)
		assert.True(t, ok)
		assert.WithinDuration(t, now.AddDate(0, 0, -3), got, 2*time.Second)
	})

	t.Run("hours collapse to now", func(t *testing.T) {
		got, ok := ParsePostedDate("2 hours ago", now)
		assert.True(t, ok)
		assert.WithinDuration(t, now, got, 2*time.Second)
	})

	t.Run("weeks ago", func(t *testing.T) {
		got, ok := ParsePostedDate("2 weeks ago", now)
		assert.True(t, ok)
		assert.WithinDuration(t, now.AddDate(0, 0, -14), got, 2*time.Second)
	})

	t.Run("unparseable phrase", func(t *testing.T) {
		_, ok := ParsePostedDate("Posted recently", now)
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParsePostedDate("", now)
		assert.False(t, ok)
	})
}

func TestParseExperienceLevel(t *testing.T) {
	//mid-senior must not be swallowed by the shorter "senior" term
	assert.Equal(t, "mid-senior level", ParseExperienceLevel("Mid-Senior level · Full-time"))
	assert.Equal(t, "senior", ParseExperienceLevel("Senior Engineer wanted"))
	assert.Equal(t, "entry level", ParseExperienceLevel("ENTRY LEVEL position"))
	assert.Equal(t, "", ParseExperienceLevel("no seniority mentioned"))
}

func TestParseJobType(t *testing.T) {
	assert.Equal(t, "full-time", ParseJobType("Full-time · Remote"))
	assert.Equal(t, "contract", ParseJobType("6 month Contract role"))
	assert.Equal(t, "", ParseJobType(""))
}

func TestParseWorkArrangement(t *testing.T) {
	assert.Equal(t, "remote", ParseWorkArrangement("Fully Remote position"))
	assert.Equal(t, "hybrid", ParseWorkArrangement("Hybrid, 2 days in office"))
	assert.Equal(t, "on-site", ParseWorkArrangement("On-site in Madrid"))
	assert.Equal(t, "", ParseWorkArrangement("somewhere"))
}

func TestDedupKey(t *testing.T) {
	key := DedupKey("Data Engineer", "Acme", "Madrid")

	//deterministic
	assert.Equal(t, key, DedupKey("Data Engineer", "Acme", "Madrid"))

	//case-insensitive
	assert.Equal(t, key, DedupKey("DATA ENGINEER", "Acme", "Madrid"))
	assert.Equal(t, key, DedupKey("Data Engineer", "acme", "MADRID"))

	//different inputs diverge
	assert.NotEqual(t, key, DedupKey("Data Engineer", "Acme", "Berlin"))
}
