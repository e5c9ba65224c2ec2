package search

import (
	"fmt"
	"io"
	"net/http"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const (
	pageFetchTimeout = 15 * time.Second
	pageByteLimit    = 2 << 20 // 2 MiB of HTML per page
	pageTextLimit    = 4000    // Markdown characters kept per page
)

// Reader fetches search result pages and converts them to markdown so
// forced searches can feed full article content to the model.
type Reader struct {
	httpClient *http.Client
}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{httpClient: &http.Client{Timeout: pageFetchTimeout}}
}

// Fetch downloads one page and returns its content as markdown,
// truncated to a model-friendly length.
func (r *Reader) Fetch(url string) (string, error) {
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page '%s' returned %d", url, resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, pageByteLimit))
	if err != nil {
		return "", fmt.Errorf("failed to read page '%s': %w", url, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(html))
	if err != nil {
		return "", fmt.Errorf("failed to convert page '%s': %w", url, err)
	}
	if len(markdown) > pageTextLimit {
		markdown = markdown[:pageTextLimit]
	}
	return markdown, nil
}
