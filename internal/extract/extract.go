// Package extract turns raw listing text fragments into typed fields.
// Every extractor tolerates empty or garbage input: when nothing can be
// parsed it reports ok=false (or an empty string) instead of an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	salaryRegex   = regexp.MustCompile(`([$£€])?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*([kK])?`)
	relativeRegex = regexp.MustCompile(`(?i)(\d+)\s*(minute|hour|day|week|month)s?\s+ago`)
)

type Salary struct {
	Min      int
	Max      int
	Currency string
}

// ParseSalary scans free text for one or two figures with an optional
// thousand marker. Two figures are treated as a range, a single figure as a
// fixed amount. Currency comes from the symbol alone.
func ParseSalary(text string) (Salary, bool) {
	if strings.TrimSpace(text) == "" {
		return Salary{}, false
	}

	matches := salaryRegex.FindAllStringSubmatch(text, 2)
	if len(matches) == 0 {
		return Salary{}, false
	}

	var amounts []int
	currency := ""
	for _, m := range matches {
		raw := strings.ReplaceAll(m[2], ",", "")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if m[3] != "" {
			val *= 1000
		}
		amounts = append(amounts, int(val))
		if currency == "" {
			currency = currencyForSymbol(m[1])
		}
	}

	switch len(amounts) {
	case 0:
		return Salary{}, false
	case 1:
		return Salary{Min: amounts[0], Max: amounts[0], Currency: currency}, true
	default:
		return Salary{Min: amounts[0], Max: amounts[1], Currency: currency}, true
	}
}

func currencyForSymbol(symbol string) string {
	switch symbol {
	case "$":
		return "USD"
	case "£":
		return "GBP"
	case "€":
		return "EUR"
	}
	return ""
}

// ParsePostedDate resolves a relative phrase like "3 days ago" against now.
// Hours and minutes collapse to now; anything unparseable reports ok=false.
func ParsePostedDate(text string, now time.Time) (time.Time, bool) {
	m := relativeRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	switch strings.ToLower(m[2]) {
	case "minute", "hour":
		return now, true
	case "day":
		return now.AddDate(0, 0, -n), true
	case "week":
		return now.AddDate(0, 0, -7*n), true
	case "month":
		return now.AddDate(0, -n, 0), true
	}
	return time.Time{}, false
}

// Vocabulary order matters: "mid-senior level" must be probed before
// "senior", otherwise every mid-senior posting degrades to senior.
var experienceLevels = []string{
	"internship",
	"entry level",
	"associate",
	"mid-senior level",
	"senior",
	"director",
	"executive",
}

var jobTypes = []string{
	"full-time",
	"full time",
	"part-time",
	"part time",
	"contract",
	"temporary",
	"internship",
	"volunteer",
}

var workArrangements = []string{
	"hybrid",
	"on-site",
	"onsite",
	"remote",
}

// ParseExperienceLevel matches the metadata blurb against the known
// seniority vocabulary, first hit wins.
func ParseExperienceLevel(text string) string {
	return matchVocabulary(text, experienceLevels)
}

func ParseJobType(text string) string {
	return matchVocabulary(text, jobTypes)
}

func ParseWorkArrangement(text string) string {
	return matchVocabulary(text, workArrangements)
}

func matchVocabulary(text string, vocabulary []string) string {
	lower := strings.ToLower(text)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			return term
		}
	}
	return ""
}
