package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Aria_AI/internal/models"
	"Aria_AI/internal/search"
	"Aria_AI/pkg/logger"
)

type fakeMemory struct {
	block string
}

func (f *fakeMemory) RenderContext(ctx context.Context, userID string, limit int64) string {
	return f.block
}

type fakeSearcher struct {
	resp  *search.Response
	err   error
	calls int
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (*search.Response, error) {
	f.calls++
	return f.resp, f.err
}

type fakeRetriever struct {
	has    bool
	block  string
	chunks int
}

func (f *fakeRetriever) HasDocuments(ctx context.Context, conversationID string) bool {
	return f.has
}

func (f *fakeRetriever) Context(ctx context.Context, query, conversationID string, topK int) (string, int) {
	return f.block, f.chunks
}

func newTestComposer(mem *fakeMemory, s *fakeSearcher, r *fakeRetriever) *Composer {
	return NewComposer(mem, s, nil, r, 20, false, logger.New("agent_test", "", ""))
}

func TestComposeEmptyWhenNothingContributes(t *testing.T) {
	c := newTestComposer(&fakeMemory{}, &fakeSearcher{}, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "hello there", "conv", "user", models.ToolModeAuto, true)
	if got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
	if meta.SearchUsed || meta.RAGUsed || meta.RAGChunks != 0 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestComposeWrapsFragments(t *testing.T) {
	mem := &fakeMemory{block: "Relevant memories about the user:\n- likes go"}
	ret := &fakeRetriever{has: true, block: "Relevant information from uploaded documents:\n\n[Document excerpt 1]:\nchunk text", chunks: 1}
	c := newTestComposer(mem, &fakeSearcher{}, ret)

	got, meta := c.Compose(context.Background(), "summarize my uploaded document", "conv", "user", models.ToolModeAuto, true)
	if !strings.HasPrefix(got, "\n\n### Tool Results ###\n") || !strings.HasSuffix(got, "\n### End Tool Results ###\n") {
		t.Errorf("missing tool results delimiters: %q", got)
	}
	if !strings.Contains(got, "\n\n---\n\n") {
		t.Errorf("fragments not separated: %q", got)
	}
	if !meta.RAGUsed || meta.RAGChunks != 1 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.SearchUsed {
		t.Error("no search should run for a document query")
	}
}

func TestComposeSearchSuccess(t *testing.T) {
	s := &fakeSearcher{resp: &search.Response{
		Query:  "latest go release",
		Answer: "Go 1.24 is the latest release.",
		Results: []search.Result{
			{URL: "https://go.dev", Title: "Go", Snippet: "release notes", PublishedDate: "2025-02-11"},
		},
	}}
	c := newTestComposer(&fakeMemory{}, s, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "latest go release", "conv", "user", models.ToolModeAuto, true)
	if !meta.SearchUsed || meta.SearchQuery != "latest go release" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	for _, want := range []string{
		`**WEB SEARCH RESULTS FOR: "latest go release"**`,
		"### Search Summary:\nGo 1.24 is the latest release.",
		"### [1] Go",
		"Published: 2025-02-11",
		"Source URL: https://go.dev",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in context:\n%s", want, got)
		}
	}
}

func TestComposeAutoSearchFailureIsSilent(t *testing.T) {
	s := &fakeSearcher{err: errors.New("tavily down")}
	c := newTestComposer(&fakeMemory{}, s, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "latest go release", "conv", "user", models.ToolModeAuto, true)
	if got != "" {
		t.Errorf("auto-mode search failure must be silent, got %q", got)
	}
	if meta.SearchUsed {
		t.Error("failed auto search must not be marked used")
	}
	if meta.SearchQuery != "latest go release" {
		t.Errorf("search query should still be recorded: %+v", meta)
	}
	if s.calls != 1 {
		t.Errorf("expected one search call, got %d", s.calls)
	}
}

func TestComposeForcedSearchFailureIsAcknowledged(t *testing.T) {
	s := &fakeSearcher{err: errors.New("tavily down")}
	c := newTestComposer(&fakeMemory{}, s, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "hello", "conv", "user", models.ToolModeSearch, true)
	if !strings.Contains(got, "**WEB SEARCH FAILED**: tavily down") {
		t.Errorf("missing failure acknowledgment: %q", got)
	}
	if !meta.SearchUsed {
		t.Error("forced search counts as used even on failure")
	}
}

func TestComposeAutoSearchWithoutResultsContributesNothing(t *testing.T) {
	// A summary with an empty hit list has nothing to cite; in auto
	// mode it must not produce a search block.
	s := &fakeSearcher{resp: &search.Response{
		Query:  "latest go release",
		Answer: "Go 1.24 is the latest release.",
	}}
	c := newTestComposer(&fakeMemory{}, s, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "latest go release", "conv", "user", models.ToolModeAuto, true)
	if got != "" {
		t.Errorf("answer without results must not render in auto mode, got %q", got)
	}
	if meta.SearchUsed {
		t.Error("search without results must not be marked used in auto mode")
	}
	if meta.SearchQuery != "latest go release" {
		t.Errorf("search query should still be recorded: %+v", meta)
	}
}

func TestComposeForcedSearchAnswerOnly(t *testing.T) {
	s := &fakeSearcher{resp: &search.Response{
		Query:  "hello",
		Answer: "A short summary.",
	}}
	c := newTestComposer(&fakeMemory{}, s, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "hello", "conv", "user", models.ToolModeSearch, true)
	if !strings.Contains(got, "### Search Summary:\nA short summary.") {
		t.Errorf("forced search should surface the summary: %q", got)
	}
	if !meta.SearchUsed {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestComposeForcedSearchNoResults(t *testing.T) {
	s := &fakeSearcher{resp: &search.Response{Query: "hello"}}
	c := newTestComposer(&fakeMemory{}, s, &fakeRetriever{})

	got, meta := c.Compose(context.Background(), "hello", "conv", "user", models.ToolModeSearch, true)
	if !strings.Contains(got, "**WEB SEARCH FOR 'hello' RETURNED NO RESULTS**") {
		t.Errorf("missing empty-result acknowledgment: %q", got)
	}
	if !meta.SearchUsed {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestComposeRAGSkippedWithoutDocuments(t *testing.T) {
	ret := &fakeRetriever{has: false, block: "should not appear", chunks: 3}
	c := newTestComposer(&fakeMemory{}, &fakeSearcher{}, ret)

	got, meta := c.Compose(context.Background(), "hello", "conv", "user", models.ToolModeNone, true)
	if got != "" || meta.RAGUsed {
		t.Errorf("RAG must be skipped without documents: %q %+v", got, meta)
	}
}

func TestComposeRAGDisabledByFlag(t *testing.T) {
	ret := &fakeRetriever{has: true, block: "should not appear", chunks: 3}
	c := newTestComposer(&fakeMemory{}, &fakeSearcher{}, ret)

	got, meta := c.Compose(context.Background(), "hello", "conv", "user", models.ToolModeNone, false)
	if got != "" || meta.RAGUsed {
		t.Errorf("RAG must respect the use flag: %q %+v", got, meta)
	}
}
