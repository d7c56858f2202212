// Package intent extracts maintenance-ticket intent from free-form chat
// messages via a structured tool call.
package intent

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/leasedesk/cli/internal/openai"
)

// DefaultThreshold is the confidence a draft must reach before a ticket is
// filed automatically.
const DefaultThreshold = 0.8

// Category classifies a maintenance request. Unknown values collapse to
// CategoryOther rather than leaking free text into the ticket store.
type Category string

const (
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryNoise      Category = "noise"
	CategoryHVAC       Category = "hvac"
	CategoryOther      Category = "other"
)

// ParseCategory maps raw model output to a known category, defaulting to
// CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryPlumbing:
		return CategoryPlumbing
	case CategoryElectrical:
		return CategoryElectrical
	case CategoryNoise:
		return CategoryNoise
	case CategoryHVAC:
		return CategoryHVAC
	default:
		return CategoryOther
	}
}

// Priority ranks how urgently a ticket needs attention.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority maps raw model output to a known priority, defaulting to
// PriorityMedium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Confidence holds the model's self-reported confidence without trusting its
// JSON type: models emit it as a number, a quoted number, or garbage.
type Confidence struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the raw token for later parsing; it never fails.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	c.raw = append(c.raw[:0], data...)
	return nil
}

// Float64 parses the stored token as a number. The second return is false
// when the token is absent or not numeric.
func (c Confidence) Float64() (float64, bool) {
	s := strings.TrimSpace(string(c.raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// TicketDraft is the structured maintenance intent the model proposes. It
// is a proposal, not a ticket: fields are normalized and the confidence
// gate applied before anything is persisted.
type TicketDraft struct {
	UnitID       string     `json:"unit_id"`
	Category     string     `json:"category"`
	Priority     string     `json:"priority"`
	Summary      string     `json:"summary"`
	AccessWindow string     `json:"access_window"`
	Confidence   Confidence `json:"confidence"`
}

// HighConfidence reports whether the draft clears the auto-create
// threshold. A missing or non-numeric confidence never clears it.
func HighConfidence(d *TicketDraft, threshold float64) bool {
	if d == nil {
		return false
	}
	v, ok := d.Confidence.Float64()
	return ok && v >= threshold
}

// DraftTool is the function schema the chat model fills in when it detects
// maintenance intent.
var DraftTool = openai.Tool{
	Name:        "create_ticket_draft",
	Description: "Extract maintenance intent from user text as a ticket draft",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"unit_id":       map[string]any{"type": "string"},
			"category":      map[string]any{"type": "string", "enum": []string{"plumbing", "electrical", "noise", "hvac", "other"}},
			"priority":      map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
			"summary":       map[string]any{"type": "string"},
			"access_window": map[string]any{"type": "string"},
			"confidence":    map[string]any{"type": "number"},
		},
		"required": []string{"unit_id", "category", "priority", "summary", "confidence"},
	},
}
