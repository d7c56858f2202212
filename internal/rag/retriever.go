// Package rag retrieves document fragments relevant to a question and
// synthesizes a grounded, cited answer from them.
package rag

import (
	"context"
	"fmt"

	"github.com/leasedesk/cli/internal/vectorindex"
)

// DefaultTopK is the number of fragments retrieved per question.
const DefaultTopK = 4

// Embedder converts texts into embedding vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index serves nearest-neighbor queries over stored fragment embeddings.
type Index interface {
	Query(ctx context.Context, queryVec []float32, filter vectorindex.Filter, k int) ([]vectorindex.Result, error)
}

// Retriever maps a natural-language question to its k closest fragments.
type Retriever struct {
	embedder Embedder
	index    Index
	topK     int
}

// NewRetriever creates a retriever over the given embedder and index.
// topK <= 0 falls back to DefaultTopK.
func NewRetriever(embedder Embedder, index Index, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, index: index, topK: topK}
}

// Search embeds the question and returns its nearest fragments, restricted
// to unitID when it is not empty. An empty corpus returns an empty slice.
func (r *Retriever) Search(ctx context.Context, question, unitID string) ([]vectorindex.Result, error) {
	vecs, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed question: expected 1 vector, got %d", len(vecs))
	}

	results, err := r.index.Query(ctx, vecs[0], vectorindex.Filter{UnitID: unitID}, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search fragments: %w", err)
	}
	return results, nil
}
