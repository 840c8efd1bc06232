package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rag-document-backend/internal/ai"
	"rag-document-backend/models"
)

func sampleResults() []models.SearchResult {
	return []models.SearchResult{
		{
			ID:    uuid.New(),
			Text:  "The warranty covers two years of normal use.",
			Score: 0.91,
			Metadata: models.ChunkMetadata{
				Filename:   "warranty.pdf",
				Page:       4,
				TotalPages: 12,
			},
		},
		{
			ID:    uuid.New(),
			Text:  "Claims must be filed within thirty days.",
			Score: 0.84,
			Metadata: models.ChunkMetadata{
				Filename:   "warranty.pdf",
				Page:       7,
				TotalPages: 12,
			},
		},
	}
}

func TestQuerySuccess(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.seedUser(t, "asker@example.com")

	env.chunks.searchResults = sampleResults()
	env.ai.answer = "The warranty lasts two years."

	w := env.do(http.MethodGet, "/query?query=how+long+is+the+warranty", token, nil, "")
	mustStatus(t, w, http.StatusOK)

	if env.chunks.lastSearchOwner != userID {
		t.Errorf("search owner = %v, want %v", env.chunks.lastSearchOwner, userID)
	}
	if env.chunks.lastTopK != defaultTopK {
		t.Errorf("top_k = %d, want %d", env.chunks.lastTopK, defaultTopK)
	}

	var resp models.QueryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Query != "how long is the warranty" {
		t.Errorf("query = %q", resp.Query)
	}
	if resp.Response != "The warranty lasts two years." {
		t.Errorf("response = %q", resp.Response)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(resp.Sources))
	}
	if resp.Sources[0].Metadata.Filename != "warranty.pdf" || resp.Sources[0].Metadata.Page != 4 {
		t.Errorf("unexpected first source: %+v", resp.Sources[0])
	}
}

func TestQueryPromptContainsContext(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "context@example.com")
	env.chunks.searchResults = sampleResults()

	w := env.do(http.MethodGet, "/query?query=warranty+length", token, nil, "")
	mustStatus(t, w, http.StatusOK)

	prompt := env.ai.lastPrompt
	for _, want := range []string{
		"[warranty.pdf, page 4]",
		"The warranty covers two years of normal use.",
		"Question: warranty length",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestQueryEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "blank@example.com")

	for _, path := range []string{"/query", "/query?query=", "/query?query=%20%20"} {
		w := env.do(http.MethodGet, path, token, nil, "")
		mustStatus(t, w, http.StatusBadRequest)
	}
}

func TestQueryNoMatches(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "nomatch@example.com")
	env.ai.answer = "I could not find that in your documents."

	w := env.do(http.MethodGet, "/query?query=unknown+topic", token, nil, "")
	mustStatus(t, w, http.StatusOK)

	var resp models.QueryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Sources == nil {
		t.Error("sources should be an empty array, not null")
	}
	if !strings.Contains(env.ai.lastPrompt, "No documents matched") {
		t.Errorf("prompt should note the empty retrieval:\n%s", env.ai.lastPrompt)
	}
}

func TestQueryTopKClamped(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "clamp@example.com")

	cases := []struct {
		raw  string
		want int
	}{
		{"", defaultTopK},
		{"3", 3},
		{"0", 1},
		{"-5", 1},
		{"100", maxTopK},
		{"garbage", defaultTopK},
	}

	for _, tc := range cases {
		path := "/query?query=q"
		if tc.raw != "" {
			path += "&top_k=" + tc.raw
		}
		w := env.do(http.MethodGet, path, token, nil, "")
		mustStatus(t, w, http.StatusOK)
		if env.chunks.lastTopK != tc.want {
			t.Errorf("top_k=%q: clamped to %d, want %d", tc.raw, env.chunks.lastTopK, tc.want)
		}
	}
}

func TestQueryEmbedFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "embedfail@example.com")
	env.ai.embedErr = ai.ErrUnavailable

	w := env.do(http.MethodGet, "/query?query=anything", token, nil, "")
	mustStatus(t, w, http.StatusInternalServerError)

	if resp := decodeError(t, w); resp.ErrorCode != "ai_unavailable" {
		t.Errorf("error_code = %q, want ai_unavailable", resp.ErrorCode)
	}
}

func TestQueryRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/query?query=anything", "", nil, "")
	mustStatus(t, w, http.StatusUnauthorized)
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want Bearer", got)
	}
}
