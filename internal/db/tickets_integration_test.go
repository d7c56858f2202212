package db

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testDatabase(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	database, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(database.Close)
	if err := database.Migrate(context.Background(), 8); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestDuplicateExists_Window(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	unit := "unit-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	id, err := database.CreateTicket(ctx, TicketInput{
		UnitID: unit, Category: "plumbing", Priority: "high", Summary: "sink leaks",
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	t.Cleanup(func() { database.DeleteTicket(ctx, id) })

	window := 2 * time.Hour

	dup, err := database.DuplicateExists(ctx, unit, "plumbing", window)
	if err != nil {
		t.Fatalf("duplicate check: %v", err)
	}
	if !dup {
		t.Error("fresh open ticket in the same unit+category must count as a duplicate")
	}

	dup, err = database.DuplicateExists(ctx, unit, "electrical", window)
	if err != nil {
		t.Fatalf("duplicate check: %v", err)
	}
	if dup {
		t.Error("a different category must not count as a duplicate")
	}

	// Outside the window the ticket no longer blocks a new one.
	if _, err := database.Pool().Exec(ctx,
		`UPDATE tickets SET created_at = NOW() - INTERVAL '3 hours' WHERE id = $1`, id,
	); err != nil {
		t.Fatalf("backdate ticket: %v", err)
	}
	dup, err = database.DuplicateExists(ctx, unit, "plumbing", window)
	if err != nil {
		t.Fatalf("duplicate check: %v", err)
	}
	if dup {
		t.Error("a ticket older than the window must not count as a duplicate")
	}
}

func TestTicketLifecycle(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	unit := "unit-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	id, err := database.CreateTicket(ctx, TicketInput{
		UnitID: unit, Category: "hvac", Priority: "medium", Summary: "no heat",
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	t.Cleanup(func() { database.DeleteTicket(ctx, id) })

	find := func() *Ticket {
		t.Helper()
		tickets, err := database.ListTickets(ctx, unit, "")
		if err != nil {
			t.Fatalf("list tickets: %v", err)
		}
		for _, tk := range tickets {
			if tk.ID == id {
				return tk
			}
		}
		t.Fatalf("ticket %d not listed", id)
		return nil
	}

	if tk := find(); tk.Status != StatusOpen || tk.ClosedAt != nil {
		t.Errorf("new ticket should be open with no closed_at, got %s / %v", tk.Status, tk.ClosedAt)
	}

	if err := database.SetTicketStatus(ctx, id, StatusClosed); err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	if tk := find(); tk.Status != StatusClosed || tk.ClosedAt == nil {
		t.Errorf("closed ticket should carry closed_at, got %s / %v", tk.Status, tk.ClosedAt)
	}

	// A closed ticket never blocks a new report.
	dup, err := database.DuplicateExists(ctx, unit, "hvac", 2*time.Hour)
	if err != nil {
		t.Fatalf("duplicate check: %v", err)
	}
	if dup {
		t.Error("closed tickets must not count as duplicates")
	}

	if err := database.SetTicketStatus(ctx, id, StatusOpen); err != nil {
		t.Fatalf("reopen ticket: %v", err)
	}
	if tk := find(); tk.Status != StatusOpen || tk.ClosedAt != nil {
		t.Errorf("reopened ticket should clear closed_at, got %s / %v", tk.Status, tk.ClosedAt)
	}
}
