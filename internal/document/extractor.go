package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// minTextLength distinguishes a structurally readable document from one with
// no extractable text, such as an image-only scan.
const minTextLength = 10

// Extract converts the uploaded binary into plain text, dispatching on the
// declared kind. No partial state is retained on failure.
func Extract(data []byte, kind Kind) (string, error) {
	switch kind {
	case KindPDF:
		return extractPDF(data)
	case KindWord:
		return extractWord(data)
	default:
		return "", fmt.Errorf("unsupported document kind %q", kind)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("pdf document has no pages")
	}

	texts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}

	joined := strings.Join(texts, "\n\n")
	if len(joined) < minTextLength {
		return "", fmt.Errorf("no extractable text in pdf, the file may be image-based")
	}

	return joined, nil
}

func extractWord(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	joined := strings.Join(wordParagraphs(content), "\n")
	if len(joined) < minTextLength {
		return "", fmt.Errorf("no extractable text in document")
	}

	return joined, nil
}

// wordParagraphs pulls the visible paragraph text, in document order, out of
// the WordprocessingML body.
func wordParagraphs(content string) []string {
	paragraphs := make([]string, 0)

	for _, chunk := range strings.Split(content, "</w:p>") {
		text := strings.TrimSpace(unescapeEntities(stripTags(chunk)))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return paragraphs
}

func stripTags(s string) string {
	var builder strings.Builder
	inTag := false

	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

func unescapeEntities(s string) string {
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}
