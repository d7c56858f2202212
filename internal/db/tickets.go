package db

import (
	"context"
	"fmt"
	"time"
)

// TicketInput carries the fields accepted when opening a ticket. Optional
// fields may be left zero.
type TicketInput struct {
	UnitID       string
	Category     string
	Priority     string
	Summary      string
	AccessWindow string
	Reporter     string
	Assignee     string
	ETA          *time.Time
	HazardFlag   int
}

// CreateTicket opens a new ticket in the open state and returns its id.
func (db *DB) CreateTicket(ctx context.Context, in TicketInput) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO tickets (unit_id, category, priority, summary, access_window, reporter, assignee, eta, hazard_flag, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		in.UnitID, in.Category, in.Priority, in.Summary, in.AccessWindow,
		in.Reporter, in.Assignee, in.ETA, in.HazardFlag, StatusOpen,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create ticket: %w", err)
	}
	return id, nil
}

// DuplicateExists reports whether an open or in-progress ticket for the same
// unit and category was created within the given window.
func (db *DB) DuplicateExists(ctx context.Context, unitID, category string, within time.Duration) (bool, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets
		 WHERE unit_id = $1 AND category = $2
		   AND status IN ($3, $4)
		   AND created_at > NOW() - make_interval(mins => $5)`,
		unitID, category, StatusOpen, StatusInProgress, int(within.Minutes()),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicates: %w", err)
	}
	return n > 0, nil
}

// ListTickets returns tickets ordered by last update, newest first. Empty
// unitID or status means no filter on that field.
func (db *DB) ListTickets(ctx context.Context, unitID string, status Status) ([]*Ticket, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, unit_id, category, priority, summary, access_window, reporter, assignee, eta, hazard_flag, status, created_at, updated_at, closed_at
		 FROM tickets
		 WHERE ($1 = '' OR unit_id = $1)
		   AND ($2 = '' OR status = $2)
		 ORDER BY updated_at DESC`,
		unitID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(
			&t.ID, &t.UnitID, &t.Category, &t.Priority, &t.Summary,
			&t.AccessWindow, &t.Reporter, &t.Assignee, &t.ETA, &t.HazardFlag,
			&t.Status, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}

// SetTicketStatus moves a ticket to a new status. Closing stamps closed_at;
// reopening clears it.
func (db *DB) SetTicketStatus(ctx context.Context, ticketID int64, status Status) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE tickets
		 SET status = $2,
		     updated_at = NOW(),
		     closed_at = CASE WHEN $2 = $3 THEN NOW() ELSE NULL END
		 WHERE id = $1`,
		ticketID, status, StatusClosed,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	return nil
}

// DeleteTicket removes a ticket entirely.
func (db *DB) DeleteTicket(ctx context.Context, ticketID int64) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
	return err
}
