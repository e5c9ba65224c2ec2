package rag

import (
	"strings"
	"testing"
)

func TestSplitEmptyText(t *testing.T) {
	c := NewChunker(1000, 200)
	if got := c.Split(""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := c.Split("   \n\t "); got != nil {
		t.Errorf("expected nil for whitespace text, got %v", got)
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	c := NewChunker(1000, 200)
	got := c.Split("just a short paragraph")
	if len(got) != 1 || got[0] != "just a short paragraph" {
		t.Errorf("unexpected chunks: %v", got)
	}
}

func TestSplitUniformTextYieldsExpectedWindows(t *testing.T) {
	// 2500 characters with no sentence breaks: fixed windows only.
	text := strings.Repeat("a", 2500)
	c := NewChunker(1000, 200)
	got := c.Split(text)

	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	if len(got[0]) != 1000 || len(got[1]) != 1000 {
		t.Errorf("unexpected chunk lengths: %d, %d", len(got[0]), len(got[1]))
	}
	// Last window runs from offset 1600 to the end.
	if len(got[2]) != 900 {
		t.Errorf("unexpected final chunk length: %d", len(got[2]))
	}
}

func TestSplitOverlapIsBounded(t *testing.T) {
	text := strings.Repeat("b", 3000)
	c := NewChunker(1000, 200)
	got := c.Split(text)

	// Windows advance by size-overlap: 0, 800, 1600, 2400.
	wantLens := []int{1000, 1000, 1000, 600}
	if len(got) != len(wantLens) {
		t.Fatalf("expected %d chunks, got %d", len(wantLens), len(got))
	}
	for i, want := range wantLens {
		if len(got[i]) != want {
			t.Errorf("chunk %d: expected length %d, got %d", i, want, len(got[i]))
		}
	}
}

func TestSplitSnapsToSentenceBoundary(t *testing.T) {
	// A sentence terminator at 80% of the window: the chunk should end
	// there instead of mid-word.
	sentence := strings.Repeat("x", 799) + ". "
	text := sentence + strings.Repeat("y", 1200)
	c := NewChunker(1000, 200)
	got := c.Split(text)

	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	if !strings.HasSuffix(got[0], ".") {
		t.Errorf("first chunk should end at the sentence boundary, got suffix %q", got[0][len(got[0])-10:])
	}
	if len(got[0]) > 1000 {
		t.Errorf("snapping must shorten, never lengthen: %d", len(got[0]))
	}
}

func TestSplitIgnoresEarlyBoundary(t *testing.T) {
	// A terminator before 70% of the window must not shorten the chunk.
	text := strings.Repeat("x", 300) + ". " + strings.Repeat("y", 1500)
	c := NewChunker(1000, 200)
	got := c.Split(text)

	if len(got[0]) != 1000 {
		t.Errorf("expected full window despite early boundary, got %d", len(got[0]))
	}
}

func TestSplitTerminates(t *testing.T) {
	// Overlap close to size must still make forward progress and stop.
	text := strings.Repeat("z", 500)
	c := NewChunker(100, 90)
	got := c.Split(text)
	if len(got) == 0 {
		t.Fatal("expected chunks")
	}
	// Sanity bound: the walk may not loop forever or explode.
	if len(got) > 100 {
		t.Errorf("suspiciously many chunks: %d", len(got))
	}
}

func TestSplitSnapWithLargeOverlapAdvances(t *testing.T) {
	// Boundary snapping can shrink the window below the overlap; the
	// next window must still start past the previous one.
	sentence := strings.Repeat("s", 73) + ". "
	text := strings.Repeat(sentence, 20)
	c := NewChunker(100, 80)
	got := c.Split(text)

	if len(got) == 0 {
		t.Fatal("expected chunks")
	}
	if len(got) > 30 {
		t.Fatalf("walk did not make forward progress: %d chunks for %d bytes", len(got), len(text))
	}
	for i, chunk := range got {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}
