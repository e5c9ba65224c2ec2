package rag

import "strings"

// Chunker splits extracted text into overlapping windows, preferring
// sentence or line boundaries near the end of each window.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker with the given window size and overlap,
// both in bytes.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{size: size, overlap: overlap}
}

// Split walks the text in fixed windows. A non-final window is cut back
// to the last ". " or "\n" when that break point lies past 70% of the
// window size, so chunks tend to end on sentence boundaries. The next
// window starts overlap bytes before the previous end, and the walk
// stops once the remaining text is smaller than the overlap, which
// guards against windows that make no forward progress.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		window := text[start:end]

		if end < len(text) {
			if bp := lastBreak(window); float64(bp) > float64(c.size)*0.7 {
				window = window[:bp+1]
				end = start + bp + 1
			}
		}

		if trimmed := strings.TrimSpace(window); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		next := end - c.overlap
		if next <= start {
			// Overlap at or above the window width (possible after a
			// boundary snap with an oversized overlap) would walk
			// backwards; drop the overlap for this step instead.
			next = end
		}
		start = next
		if start >= len(text)-c.overlap {
			break
		}
	}
	return chunks
}

// lastBreak returns the byte offset of the last sentence terminator or
// newline in the window, or -1 when there is none.
func lastBreak(window string) int {
	bp := strings.LastIndex(window, ". ")
	if nl := strings.LastIndex(window, "\n"); nl > bp {
		bp = nl
	}
	return bp
}
