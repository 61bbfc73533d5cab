package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Write([]byte(`{"response": "{\"summary\": \"Backend role at Acme.\", \"requirements\": [\"Go\", \"SQL\"]}"}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2")
	summary, err := client.Summarize(context.Background(), "We need a backend engineer...")

	require.NoError(t, err)
	assert.Equal(t, "Backend role at Acme.", summary.Summary)
	assert.Equal(t, []string{"Go", "SQL"}, summary.Requirements)
}

func TestOllamaSummarizeFenceWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//model wrapped the payload in a markdown fence despite instructions
		w.Write([]byte(`{"response": "` + "```json\\n{\\\"summary\\\": \\\"Short.\\\", \\\"requirements\\\": []}\\n```" + `"}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2")
	summary, err := client.Summarize(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, "Short.", summary.Summary)
	assert.Empty(t, summary.Requirements)
}

func TestOllamaSummarizeEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//empty body: the caller should see an error it can retry on
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2")
	_, err := client.Summarize(context.Background(), "text")
	assert.Error(t, err)
}

func TestOllamaSummarizeMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "not json at all"}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2")
	_, err := client.Summarize(context.Background(), "text")
	assert.Error(t, err)
}

func TestOllamaSummarizeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2")
	_, err := client.Summarize(context.Background(), "text")
	assert.Error(t, err)
}

func TestNewClientProviderSwitch(t *testing.T) {
	assert.IsType(t, &MockClient{}, NewClient("mock", "", ""))
	assert.IsType(t, &ollamaClient{}, NewClient("ollama", "http://localhost:11434", "llama3.2"))
	//unknown or empty provider falls back to the real client
	assert.IsType(t, &ollamaClient{}, NewClient("", "http://localhost:11434", "llama3.2"))
}

func TestCleanMarkdownJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain json untouched", `{"a": 1}`, `{"a": 1}`},
		{"json fence stripped", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence stripped", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanMarkdownJSON(tt.in))
		})
	}
}

func TestBuildPromptCapsText(t *testing.T) {
	long := make([]byte, 10000)
	for i := range long {
		long[i] = 'x'
	}

	prompt := buildPrompt(string(long))
	//the prompt embeds at most promptTextLimit characters of the description
	assert.Less(t, len(prompt), promptTextLimit+600)
}

func TestBuildPromptCapKeepsValidUTF8(t *testing.T) {
	//two-byte "é" straddles the cap; the cut must not leave half a rune
	description := strings.Repeat("a", promptTextLimit-1) + "é and more text"

	prompt := buildPrompt(description)
	assert.True(t, utf8.ValidString(prompt))
	assert.NotContains(t, prompt, "é")
}
