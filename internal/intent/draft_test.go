package intent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leasedesk/cli/internal/openai"
)

func TestHighConfidence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"above threshold", `{"confidence": 0.95}`, true},
		{"at threshold", `{"confidence": 0.8}`, true},
		{"below threshold", `{"confidence": 0.79}`, false},
		{"quoted number", `{"confidence": "0.95"}`, true},
		{"quoted below", `{"confidence": "0.5"}`, false},
		{"missing", `{}`, false},
		{"null", `{"confidence": null}`, false},
		{"garbage string", `{"confidence": "very sure"}`, false},
		{"boolean", `{"confidence": true}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d TicketDraft
			if err := json.Unmarshal([]byte(tc.body), &d); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := HighConfidence(&d, DefaultThreshold); got != tc.want {
				t.Errorf("HighConfidence(%s) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}

	if HighConfidence(nil, DefaultThreshold) {
		t.Error("nil draft must never be high confidence")
	}
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"plumbing":   CategoryPlumbing,
		"Electrical": CategoryElectrical,
		" hvac ":     CategoryHVAC,
		"noise":      CategoryNoise,
		"other":      CategoryOther,
		"appliance":  CategoryOther,
		"":           CategoryOther,
	}
	for in, want := range cases {
		if got := ParseCategory(in); got != want {
			t.Errorf("ParseCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"high":   PriorityHigh,
		"LOW":    PriorityLow,
		"medium": PriorityMedium,
		"urgent": PriorityMedium,
		"":       PriorityMedium,
	}
	for in, want := range cases {
		if got := ParsePriority(in); got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}

type fakeToolCaller struct {
	call *openai.ToolCall
	err  error
}

func (f *fakeToolCaller) ChatToolCall(ctx context.Context, model string, messages []openai.Message, tool openai.Tool) (*openai.ToolCall, error) {
	return f.call, f.err
}

func TestExtractDraft(t *testing.T) {
	t.Run("model declines means plain question", func(t *testing.T) {
		draft, err := ExtractDraft(context.Background(), &fakeToolCaller{}, "m", "A-101", "what are the quiet hours?")
		if err != nil {
			t.Fatalf("ExtractDraft: %v", err)
		}
		if draft != nil {
			t.Errorf("expected nil draft, got %+v", draft)
		}
	})

	t.Run("normalizes enums and backfills unit", func(t *testing.T) {
		args := `{"category": "Leaky Pipe", "priority": "URGENT", "summary": "sink leaks", "confidence": 0.9}`
		caller := &fakeToolCaller{call: &openai.ToolCall{
			Name:      "create_ticket_draft",
			Arguments: json.RawMessage(args),
		}}
		draft, err := ExtractDraft(context.Background(), caller, "m", "A-101", "my sink is leaking")
		if err != nil {
			t.Fatalf("ExtractDraft: %v", err)
		}
		if draft.Category != string(CategoryOther) {
			t.Errorf("category %q, want other", draft.Category)
		}
		if draft.Priority != string(PriorityMedium) {
			t.Errorf("priority %q, want medium", draft.Priority)
		}
		if draft.UnitID != "A-101" {
			t.Errorf("unit %q, want backfilled A-101", draft.UnitID)
		}
		if !HighConfidence(draft, DefaultThreshold) {
			t.Error("0.9 should clear the default threshold")
		}
	})
}
