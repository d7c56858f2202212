package vectorindex

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leasedesk/cli/internal/db"
)

// testDatabase connects to the database named by DATABASE_URL, or skips.
// The tests migrate with a small embedding width, so point this at a
// disposable database with the pgvector extension available.
func testDatabase(t *testing.T) *db.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	database, err := db.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(database.Close)
	if err := database.Migrate(context.Background(), 8); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestIndexRoundTrip(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()

	// A unit id unique to this run scopes every query below to the rows
	// this test wrote.
	unit := "unit-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	docID := "doc_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	now := time.Now().UTC()
	doc := &db.Document{
		ID: docID, Name: "integration.pdf", UnitID: unit,
		DocType: "lease", Version: 1, EffectiveFrom: &now, Pages: 1, UploadedAt: now,
	}
	if err := database.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	t.Cleanup(func() {
		// Cascades to the fragments.
		database.Pool().Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	})

	ix := New(database)
	entries := make([]Entry, 10)
	for i := range entries {
		// Distinct directions so cosine distances to the probe differ.
		vec := make([]float32, 8)
		vec[0] = 1
		vec[1] = float32(i) * 0.2
		entries[i] = Entry{
			ID:          docID + ":1:" + string(rune('a'+i)),
			Embedding:   vec,
			Text:        "fragment",
			ContentHash: "hash",
			Meta:        Metadata{DocID: docID, FileName: doc.Name, UnitID: unit, Page: 1, FragmentIndex: i},
		}
	}

	probe := []float32{1, 0, 0, 0, 0, 0, 0, 0}

	t.Run("add twice equals add once", func(t *testing.T) {
		for pass := 0; pass < 2; pass++ {
			n, err := ix.Add(ctx, entries)
			if err != nil {
				t.Fatalf("add pass %d: %v", pass+1, err)
			}
			if n != len(entries) {
				t.Fatalf("add pass %d wrote %d entries, want %d", pass+1, n, len(entries))
			}
		}
		results, err := ix.Query(ctx, probe, Filter{UnitID: unit}, 50)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(results) != len(entries) {
			t.Errorf("got %d rows after re-adding, want %d (upsert must not duplicate)", len(results), len(entries))
		}
	})

	t.Run("query truncates to k in distance order", func(t *testing.T) {
		results, err := ix.Query(ctx, probe, Filter{UnitID: unit}, 4)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("got %d results, want 4", len(results))
		}
		if results[0].Meta.FragmentIndex != 0 {
			t.Errorf("closest fragment should be index 0, got %d", results[0].Meta.FragmentIndex)
		}
		for i := 1; i < len(results); i++ {
			if results[i].Distance < results[i-1].Distance {
				t.Errorf("results out of order at %d: %f < %f", i, results[i].Distance, results[i-1].Distance)
			}
		}
	})

	t.Run("unit filter excludes other units", func(t *testing.T) {
		results, err := ix.Query(ctx, probe, Filter{UnitID: "unit-none-" + unit}, 4)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no hits for an unknown unit, got %d", len(results))
		}
	})
}
