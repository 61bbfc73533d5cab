package ai

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// promptTextLimit caps how much of the description goes into the prompt;
// anything past this adds latency without improving the summary.
const promptTextLimit = 3000

// Summary is the structured result of a summarization call.
type Summary struct {
	Summary      string   `json:"summary"`
	Requirements []string `json:"requirements"`
}

// Client is the interface for summarization providers
type Client interface {
	// Summarize produces a short summary and a requirements list for a job
	// description. An empty or malformed service response is returned as an
	// error so the caller can decide to retry.
	Summarize(ctx context.Context, description string) (*Summary, error)
}

// buildPrompt creates the instruction for the model. The response contract
// is strict JSON so parsing stays trivial; fence-wrapped output is still
// tolerated downstream because models ignore instructions often enough.
func buildPrompt(description string) string {
	if len(description) > promptTextLimit {
		//cut on a rune boundary so the prompt stays valid UTF-8
		cut := promptTextLimit
		for cut > 0 && !utf8.RuneStart(description[cut]) {
			cut--
		}
		description = description[:cut]
	}
	return fmt.Sprintf(`You are a job posting analyst.
Read the job description below and respond with ONLY a raw JSON object, no markdown, in this exact shape:
{"summary": "<2-3 sentence summary of the role>", "requirements": ["<requirement>", ...]}
Keep the summary factual and the requirements list short (max 8 entries).

Job description:
%s`, description)
}
