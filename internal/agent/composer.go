package agent

import (
	"context"
	"fmt"
	"strings"

	"Aria_AI/internal/models"
	"Aria_AI/internal/search"
	"Aria_AI/pkg/logger"
)

const (
	contextSeparator = "\n\n---\n\n"
	maxDetailPages   = 2
)

// MemoryRenderer supplies the rendered memory block for a user.
type MemoryRenderer interface {
	RenderContext(ctx context.Context, userID string, limit int64) string
}

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

// PageFetcher downloads one result page as markdown.
type PageFetcher interface {
	Fetch(url string) (string, error)
}

// Retriever supplies document context for a conversation.
type Retriever interface {
	HasDocuments(ctx context.Context, conversationID string) bool
	Context(ctx context.Context, query, conversationID string, topK int) (string, int)
}

// Composer assembles the context block for one chat turn: user memory,
// optional web search results and optional document excerpts.
type Composer struct {
	memory      MemoryRenderer
	searcher    Searcher
	fetcher     PageFetcher
	index       Retriever
	memoryLimit int64
	fetchPages  bool
	log         *logger.Logger
}

// NewComposer creates a Composer. fetcher may be nil, which disables
// full-page fetching on forced searches.
func NewComposer(memory MemoryRenderer, searcher Searcher, fetcher PageFetcher, index Retriever, memoryLimit int64, fetchPages bool, log *logger.Logger) *Composer {
	return &Composer{
		memory:      memory,
		searcher:    searcher,
		fetcher:     fetcher,
		index:       index,
		memoryLimit: memoryLimit,
		fetchPages:  fetchPages,
		log:         log,
	}
}

// Compose builds the combined tool context for a query. It never
// fails: every collaborator error degrades to that feature being
// absent from the result, except a failed forced search, which is
// acknowledged in the context so the model can tell the user.
func (c *Composer) Compose(ctx context.Context, query, conversationID, userID string, mode models.ToolMode, useRAG bool) (string, models.ToolMetadata) {
	var fragments []string
	meta := models.ToolMetadata{}

	// 1. Memory about the user.
	if memoryBlock := c.memory.RenderContext(ctx, userID, c.memoryLimit); memoryBlock != "" {
		fragments = append(fragments, memoryBlock)
	}

	// 2. Web search.
	forced := mode == models.ToolModeSearch
	if search.Decide(query, mode) {
		meta.SearchQuery = query
		resp, err := c.searcher.Search(ctx, query)
		switch {
		case err != nil:
			if forced {
				meta.SearchUsed = true
				fragments = append(fragments, searchFailedBlock(err))
			} else {
				c.log.Warn(fmt.Sprintf("search skipped after failure: %v", err))
			}
		case len(resp.Results) == 0:
			// Results drive the context; in auto mode an empty hit
			// list means search contributes nothing.
			if forced {
				meta.SearchUsed = true
				if resp.Answer != "" {
					fragments = append(fragments, renderSearchResults(resp))
				} else {
					fragments = append(fragments, searchEmptyBlock(query))
				}
			}
		default:
			meta.SearchUsed = true
			fragments = append(fragments, renderSearchResults(resp))
			if forced && c.fetchPages && c.fetcher != nil {
				if details := c.fetchDetails(resp.Results); details != "" {
					fragments = append(fragments, details)
				}
			}
		}
	}

	// 3. Document excerpts.
	if useRAG && conversationID != "" && c.index.HasDocuments(ctx, conversationID) {
		if ragBlock, count := c.index.Context(ctx, query, conversationID, 0); ragBlock != "" {
			fragments = append(fragments, ragBlock)
			meta.RAGUsed = true
			meta.RAGChunks = count
		}
	}

	if len(fragments) == 0 {
		return "", meta
	}
	combined := strings.Join(fragments, contextSeparator)
	return fmt.Sprintf("\n\n### Tool Results ###\n%s\n### End Tool Results ###\n", combined), meta
}

// fetchDetails pulls full page content from the top results so the
// model gets more than the snippets. Fetch failures drop the page.
func (c *Composer) fetchDetails(results []search.Result) string {
	var parts []string
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		content, err := c.fetcher.Fetch(r.URL)
		if err != nil || len(content) <= len(r.Snippet) {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.URL
		}
		parts = append(parts, fmt.Sprintf("\n### Detailed Content from %s:\n%s", title, content))
		if len(parts) >= maxDetailPages {
			break
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n---\n**ADDITIONAL DETAILS FROM SOURCES:**" + strings.Join(parts, "")
}

// renderSearchResults formats a successful search so the model grounds
// its answer in the results instead of generic knowledge.
func renderSearchResults(resp *search.Response) string {
	parts := []string{
		fmt.Sprintf("**WEB SEARCH RESULTS FOR: %q**\n", resp.Query),
		"INSTRUCTION: You MUST use these search results to answer. Cite specific sources with URLs. Do NOT give generic responses.",
		"",
	}

	if resp.Answer != "" {
		parts = append(parts, fmt.Sprintf("### Search Summary:\n%s\n", resp.Answer))
	}

	for i, r := range resp.Results {
		title := r.Title
		if title == "" {
			title = fmt.Sprintf("Result %d", i+1)
		}
		parts = append(parts, fmt.Sprintf("### [%d] %s", i+1, title))
		if r.PublishedDate != "" {
			parts = append(parts, "Published: "+r.PublishedDate)
		}
		if r.Snippet != "" {
			parts = append(parts, "\n"+r.Snippet)
		}
		if r.URL != "" {
			parts = append(parts, "\nSource URL: "+r.URL)
		}
		parts = append(parts, "")
	}

	parts = append(parts, "\n---\nIMPORTANT: Base your answer on the information above. Include specific dates, facts, and cite source URLs. If information is missing from results, say so explicitly.")
	return strings.Join(parts, "\n")
}

func searchFailedBlock(err error) string {
	return fmt.Sprintf("**WEB SEARCH FAILED**: %v\n\n"+
		"INSTRUCTION: Acknowledge that web search was attempted but failed. "+
		"Provide the best answer you can based on your training data, "+
		"but clearly state that you could not verify with current sources.", err)
}

func searchEmptyBlock(query string) string {
	return fmt.Sprintf("**WEB SEARCH FOR '%s' RETURNED NO RESULTS**\n\n"+
		"INSTRUCTION: Acknowledge that you searched but found no results. "+
		"Provide the best answer based on your knowledge while noting this limitation.", query)
}
