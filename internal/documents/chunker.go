package documents

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per fragment.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of characters shared between
// consecutive fragments.
const DefaultChunkOverlap = 150

// perPageFragmentFuse caps how many fragments a single page may produce.
const perPageFragmentFuse = 2000

// ChunkText splits text into overlapping fixed-length windows. Each window
// holds at most maxLen characters; the next window starts overlap characters
// before the previous one ended, except where that would not move forward,
// in which case it starts exactly where the previous one ended. Windows are
// emitted verbatim so adjacent windows reassemble the input; a window whose
// content is all whitespace is dropped. Overlapping seams are deliberate:
// clause boundaries survive at the cost of duplicated text, which top-k
// retrieval tolerates.
func ChunkText(text string, maxLen, overlap int) []string {
	if maxLen <= 0 {
		maxLen = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	var out []string
	for i := 0; i < n; {
		j := i + maxLen
		if j > n {
			j = n
		}
		if window := string(runes[i:j]); strings.TrimSpace(window) != "" {
			out = append(out, window)
		}
		if j >= n {
			break
		}
		next := j - overlap
		if next <= i {
			// overlap >= maxLen would stall here; step to the window end
			next = j
		}
		i = next
	}
	return out
}

// Fragment is a bounded slice of one page's text, the unit of embedding and
// retrieval. (DocID, Page, Index) is unique across the corpus.
type Fragment struct {
	DocID    string
	FileName string
	UnitID   string
	Page     int
	Index    int
	Text     string
}

// ID returns the stable fragment identifier used as the vector index upsert
// key. Reindexing the same document position reuses the same id.
func (f Fragment) ID() string {
	return fmt.Sprintf("%s:%d:%d", f.DocID, f.Page, f.Index)
}

// ContentHash returns the hex SHA-256 of the fragment text.
func (f Fragment) ContentHash() string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(f.Text)))
}

// PagesToFragments chunks every page and tags each fragment with its source
// document, file name, unit and 0-based per-page index. Processing stops
// once the document character cap is exceeded.
func PagesToFragments(docID, fileName, unitID string, pages []Page, maxLen, overlap int) []Fragment {
	var frags []Fragment
	totalChars := 0
	for _, page := range pages {
		totalChars += utf8.RuneCountInString(page.Text)
		if totalChars > maxDocChars {
			break
		}
		chunks := ChunkText(page.Text, maxLen, overlap)
		for idx, chunk := range chunks {
			frags = append(frags, Fragment{
				DocID:    docID,
				FileName: fileName,
				UnitID:   unitID,
				Page:     page.Number,
				Index:    idx,
				Text:     chunk,
			})
		}
		if len(chunks) > perPageFragmentFuse {
			break
		}
	}
	return frags
}
