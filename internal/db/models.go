package db

import (
	"time"
)

// Document represents an uploaded lease or rules document. Records are
// immutable after upload; re-uploading the same name+unit creates a new
// record with a bumped version.
type Document struct {
	ID            string
	Name          string
	UnitID        string
	DocType       string
	Version       int
	EffectiveFrom *time.Time
	Pages         int
	SizeKB        float64
	UploadedAt    time.Time
}

// Status is a ticket lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Ticket represents a tracked maintenance request.
type Ticket struct {
	ID           int64
	UnitID       string
	Category     string
	Priority     string
	Summary      string
	AccessWindow string
	Reporter     string
	Assignee     string
	ETA          *time.Time
	HazardFlag   int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
}
