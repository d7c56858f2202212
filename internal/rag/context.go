package rag

import (
	"fmt"
	"strings"

	"github.com/leasedesk/cli/internal/vectorindex"
)

// maxContextChars bounds the assembled context so the prompt stays inside
// the chat model's window with room for the question and the answer.
const maxContextChars = 6000

// maxCitations caps the references line; anything past it adds noise, not
// provenance.
const maxCitations = 8

// buildContext renders retrieval results as numbered, source-attributed
// blocks, preserving retrieval order. Results with empty text are skipped
// and assembly stops once the character budget is reached.
func buildContext(results []vectorindex.Result) string {
	var b strings.Builder
	n := 0
	for _, r := range results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		block := fmt.Sprintf("[%d] (%s p.%d) %s", n+1, r.Meta.FileName, r.Meta.Page, text)
		if b.Len()+len(block) > maxContextChars && b.Len() > 0 {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block)
		n++
	}
	return b.String()
}

// References formats the sources behind an answer as a single line, e.g.
// "References: [lease.pdf p.4; rules.pdf p.2]". Each (file, page) pair
// appears once, in first-occurrence order, capped at maxCitations. No
// results means no line at all.
func References(results []vectorindex.Result) string {
	type src struct {
		file string
		page int
	}
	seen := map[src]bool{}
	var cites []string
	for _, r := range results {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		s := src{file: r.Meta.FileName, page: r.Meta.Page}
		if seen[s] {
			continue
		}
		seen[s] = true
		cites = append(cites, fmt.Sprintf("%s p.%d", s.file, s.page))
		if len(cites) == maxCitations {
			break
		}
	}
	if len(cites) == 0 {
		return ""
	}
	return fmt.Sprintf("References: [%s]", strings.Join(cites, "; "))
}
