package intent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leasedesk/cli/internal/openai"
)

const extractPrompt = "You detect maintenance requests in tenant chat messages. " +
	"When the user reports a problem that needs a repair or a visit, call the " +
	"create_ticket_draft tool with your best extraction and a confidence between 0 and 1. " +
	"If the message is only a question about documents or rules, do not call the tool."

// ToolCaller offers a chat completion constrained to a single tool.
type ToolCaller interface {
	ChatToolCall(ctx context.Context, model string, messages []openai.Message, tool openai.Tool) (*openai.ToolCall, error)
}

// ExtractDraft asks the model whether userText carries maintenance intent.
// It returns (nil, nil) when the model declines to call the tool, meaning
// the message is a plain question.
func ExtractDraft(ctx context.Context, llm ToolCaller, model, unitID, userText string) (*TicketDraft, error) {
	messages := []openai.Message{
		{Role: "system", Content: extractPrompt},
		{Role: "user", Content: fmt.Sprintf("Active Unit: %s\n\n%s", unitID, userText)},
	}

	call, err := llm.ChatToolCall(ctx, model, messages, DraftTool)
	if err != nil {
		return nil, fmt.Errorf("extract ticket draft: %w", err)
	}
	if call == nil {
		return nil, nil
	}

	var draft TicketDraft
	if err := json.Unmarshal(call.Arguments, &draft); err != nil {
		return nil, fmt.Errorf("extract ticket draft: decode arguments: %w", err)
	}
	if draft.UnitID == "" {
		draft.UnitID = unitID
	}
	draft.Category = string(ParseCategory(draft.Category))
	draft.Priority = string(ParsePriority(draft.Priority))
	return &draft, nil
}
