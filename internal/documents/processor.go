package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leasedesk/cli/internal/db"
	"github.com/leasedesk/cli/internal/vectorindex"
)

// Embedder maps a batch of fragment texts to one vector each, same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer persists fragment entries for retrieval.
type Indexer interface {
	Add(ctx context.Context, entries []vectorindex.Entry) (int, error)
}

// Processor runs the ingestion pipeline: bytes to pages to fragments to
// embeddings to indexed entries, plus the document registry record.
type Processor struct {
	db           *db.DB
	embedder     Embedder
	index        Indexer
	chunkSize    int
	chunkOverlap int
}

// NewProcessor creates a new document processor.
func NewProcessor(database *db.DB, embedder Embedder, index Indexer, chunkSize, chunkOverlap int) *Processor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Processor{
		db:           database,
		embedder:     embedder,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// IngestFile reads a PDF from disk and ingests it for the given unit.
func (p *Processor) IngestFile(ctx context.Context, path, unitID string) (*db.Document, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read document: %w", err)
	}
	return p.Ingest(ctx, filepath.Base(path), unitID, raw)
}

// Ingest parses, chunks, embeds and indexes one uploaded document, and
// records it in the registry. A corrupt document aborts before anything is
// written; a re-upload of the same name+unit gets a bumped version. Returns
// the document record and the number of fragments indexed.
func (p *Processor) Ingest(ctx context.Context, fileName, unitID string, raw []byte) (*db.Document, int, error) {
	pages, err := ExtractPages(raw)
	if err != nil {
		return nil, 0, err
	}

	version, err := p.db.NextVersion(ctx, fileName, unitID)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	doc := &db.Document{
		ID:            newDocumentID(),
		Name:          fileName,
		UnitID:        unitID,
		DocType:       "lease",
		Version:       version,
		EffectiveFrom: &now,
		Pages:         len(pages),
		SizeKB:        float64(len(raw)) / 1024,
		UploadedAt:    now,
	}
	if err := p.db.CreateDocument(ctx, doc); err != nil {
		return nil, 0, err
	}

	frags := PagesToFragments(doc.ID, fileName, unitID, pages, p.chunkSize, p.chunkOverlap)
	if len(frags) == 0 {
		return doc, 0, nil
	}

	texts := make([]string, len(frags))
	for i, f := range frags {
		texts[i] = f.Text
	}
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return doc, 0, err
	}
	if len(vectors) != len(frags) {
		return doc, 0, fmt.Errorf("embedder returned %d vectors for %d fragments", len(vectors), len(frags))
	}

	entries := make([]vectorindex.Entry, len(frags))
	for i, f := range frags {
		entries[i] = vectorindex.Entry{
			ID:          f.ID(),
			Embedding:   vectors[i],
			Text:        f.Text,
			ContentHash: f.ContentHash(),
			Meta: vectorindex.Metadata{
				DocID:         f.DocID,
				FileName:      f.FileName,
				UnitID:        f.UnitID,
				Page:          f.Page,
				FragmentIndex: f.Index,
			},
		}
	}

	added, err := p.index.Add(ctx, entries)
	if err != nil {
		return doc, added, err
	}
	return doc, added, nil
}

// newDocumentID returns a short unique document identifier.
func newDocumentID() string {
	return "doc_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
