// Package normalize maps raw listing fragments into canonical job records.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-zephyr-scraper/internal/extract"
	"go-zephyr-scraper/internal/models"
)

const sourceTag = "linkedin"

// foldText lowercases and strips diacritics so filter matching survives
// accented location spellings ("Zürich" vs "Zurich").
func foldText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// Normalize converts one fragment into a job record for the subscription's
// owner. ok=false means the fragment was skipped: either a minimum viable
// field (title, company, location, URL) is missing, or a subscription filter
// rejected it. Skipping is expected, never an error.
//
// The returned record carries no persistence identity; the store assigns one
// on insert.
func Normalize(frag models.RawFragment, sub models.SearchSubscription, now time.Time) (*models.JobRecord, bool) {
	title := strings.TrimSpace(frag.Title)
	company := strings.TrimSpace(frag.Subtitle)
	location := strings.TrimSpace(frag.LocationText)
	jobURL := strings.TrimSpace(frag.URL)

	if title == "" || company == "" || location == "" || jobURL == "" {
		return nil, false
	}

	record := &models.JobRecord{
		UserID:   sub.UserID,
		Title:    title,
		Company:  company,
		Location: location,
		URL:      jobURL,
		DedupKey: extract.DedupKey(title, company, location),
		Source:   sourceTag,
		Status:   models.StatusNew,
	}

	//everything below degrades field by field; absence is "unknown"
	if salary, ok := extract.ParseSalary(frag.SalaryText); ok {
		record.SalaryMin = &salary.Min
		record.SalaryMax = &salary.Max
		record.Currency = salary.Currency
	}
	if postedAt, ok := extract.ParsePostedDate(frag.PostedText, now); ok {
		record.PostedAt = &postedAt
	}

	metadata := frag.MetadataText
	record.JobType = extract.ParseJobType(metadata)
	record.ExperienceLevel = extract.ParseExperienceLevel(metadata)

	arrangementText := metadata + " " + frag.Title + " " + frag.LocationText
	record.WorkArrangement = extract.ParseWorkArrangement(arrangementText)

	if !passesFilters(record, sub) {
		return nil, false
	}

	return record, true
}

// passesFilters applies the subscription's remote-only and experience-level
// constraints. Records with unknown fields pass: filters only reject on a
// positive mismatch, never on missing data.
func passesFilters(record *models.JobRecord, sub models.SearchSubscription) bool {
	if sub.RemoteOnly {
		folded := foldText(record.Location + " " + record.WorkArrangement)
		if record.WorkArrangement != "" && record.WorkArrangement != "remote" {
			return false
		}
		if record.WorkArrangement == "" && !strings.Contains(folded, "remote") {
			return false
		}
	}

	if sub.ExperienceLevel != nil && *sub.ExperienceLevel != "" && record.ExperienceLevel != "" {
		if foldText(record.ExperienceLevel) != foldText(*sub.ExperienceLevel) {
			return false
		}
	}

	return true
}
