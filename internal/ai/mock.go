package ai

import (
	"context"
	"log"
	"strings"
)

// NewClient picks the summarization provider named in the configuration.
// Supported providers: "ollama" (default), "mock". Mock exists so runs
// against a dev database work without a model server.
func NewClient(provider, baseURL, model string) Client {
	switch strings.ToLower(provider) {
	case "mock":
		log.Println("🤖 Using mock summarization client (set ai_provider: ollama for real summaries)")
		return NewMockClient()
	default:
		return NewOllamaClient(baseURL, model)
	}
}

// MockClient returns a canned summary derived from the description itself.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Summarize(ctx context.Context, description string) (*Summary, error) {
	snippet := strings.TrimSpace(description)
	if len(snippet) > 120 {
		snippet = snippet[:120] + "..."
	}
	return &Summary{
		Summary:      "Mock summary: " + snippet,
		Requirements: []string{"See full description"},
	}, nil
}
