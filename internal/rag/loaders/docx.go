package loaders

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/v2/document"
)

// extractDOCX pulls the text of every paragraph, one paragraph per
// line.
func extractDOCX(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer doc.Close()

	var lines []string
	for _, para := range doc.Paragraphs() {
		var sb strings.Builder
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		if line := sb.String(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
