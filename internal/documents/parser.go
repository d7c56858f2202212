package documents

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrCorruptDocument indicates the uploaded bytes are not a well-formed
// document. Ingestion aborts before any index writes.
var ErrCorruptDocument = errors.New("corrupt document")

// maxPageChars caps the text kept per page; maxDocChars caps the total
// characters chunked per document. Both guard against pathological files.
const (
	maxPageChars = 200_000
	maxDocChars  = 2_000_000
)

// Page is the extracted plain text of a single document page. Numbering is
// 1-based and contiguous: pages without extractable text keep their slot
// with empty text so downstream citations stay accurate.
type Page struct {
	Number int
	Text   string
}

// ExtractPages parses raw PDF bytes into ordered, normalized pages.
func ExtractPages(raw []byte) ([]Page, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	pages := make([]Page, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrCorruptDocument, i+1, err)
		}
		pages = append(pages, Page{Number: i + 1, Text: normalize(text)})
	}
	return pages, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// normalize strips NUL bytes, collapses runs of whitespace and caps the
// page length at maxPageChars.
func normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if len(text) > maxPageChars {
		runes := []rune(text)
		if len(runes) > maxPageChars {
			text = string(runes[:maxPageChars])
		}
	}
	return text
}
