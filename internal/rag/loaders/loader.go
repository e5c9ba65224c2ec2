// Package loaders extracts plain text from uploaded documents. The
// file type is chosen by extension first, with content sniffing as a
// fallback for missing or unknown extensions.
package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ExtractText derives the full plain text of a document. Multi-page
// formats concatenate pages with a blank line.
func ExtractText(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".xlsx":
		return extractXLSX(data)
	case ".txt", ".md", ".markdown", ".csv", ".log":
		return string(data), nil
	}

	// Unknown extension: sniff the content.
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/pdf"):
		return extractPDF(data)
	case mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return extractDOCX(data)
	case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return extractXLSX(data)
	case strings.HasPrefix(mtype.String(), "text/"):
		return string(data), nil
	}

	return "", fmt.Errorf("unsupported document type %s (%s)", filepath.Ext(filename), mtype.String())
}
