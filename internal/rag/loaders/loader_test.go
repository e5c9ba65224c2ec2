package loaders

import (
	"strings"
	"testing"
)

func TestExtractTextPlainFormats(t *testing.T) {
	for _, name := range []string{"notes.txt", "readme.md", "data.csv"} {
		got, err := ExtractText([]byte("hello world"), name)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if got != "hello world" {
			t.Errorf("%s: got %q", name, got)
		}
	}
}

func TestExtractTextSniffsUnknownExtension(t *testing.T) {
	got, err := ExtractText([]byte("plain utf-8 content"), "upload.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain utf-8 content" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextRejectsUnknownBinary(t *testing.T) {
	// A PNG header is neither a supported document nor text.
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	_, err := ExtractText(png, "image.png")
	if err == nil {
		t.Fatal("expected an error for unsupported binary content")
	}
	if !strings.Contains(err.Error(), "unsupported document type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	if _, err := ExtractText([]byte("not a real pdf"), "broken.pdf"); err == nil {
		t.Fatal("expected an error for a corrupt PDF")
	}
}
