package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/leasedesk/cli/internal/openai"
	"github.com/leasedesk/cli/internal/vectorindex"
)

// FallbackAnswer is returned verbatim when retrieval finds no evidence. It
// never carries a references line and costs no chat completion.
const FallbackAnswer = "I couldn't find this in your documents. Please upload the relevant lease or rules."

const systemPrompt = "You are a helpful assistant for a landlord/tenant portal. " +
	"Answer ONLY using the provided context. If something is not in the context, " +
	"say you cannot find it. Be concise and factual."

// Searcher retrieves the fragments most relevant to a question.
type Searcher interface {
	Search(ctx context.Context, question, unitID string) ([]vectorindex.Result, error)
}

// Completer produces a chat completion for a model and message sequence.
type Completer interface {
	ChatCompletion(ctx context.Context, model string, messages []openai.Message) (string, error)
}

// Answerer turns a question into a grounded answer with a trailing
// references line naming the fragments it drew on.
type Answerer struct {
	searcher Searcher
	llm      Completer
	model    string
}

// NewAnswerer creates an answerer using the given retriever and chat model.
func NewAnswerer(searcher Searcher, llm Completer, model string) *Answerer {
	return &Answerer{searcher: searcher, llm: llm, model: model}
}

// Answer retrieves evidence for the question, asks the chat model to answer
// strictly from it, and appends the deduplicated source references. With no
// retrievable evidence it returns FallbackAnswer without calling the model.
func (a *Answerer) Answer(ctx context.Context, question, unitID string) (string, error) {
	results, err := a.searcher.Search(ctx, question, unitID)
	if err != nil {
		return "", err
	}

	contextText := buildContext(results)
	if contextText == "" {
		return FallbackAnswer, nil
	}

	unit := unitID
	if unit == "" {
		unit = "(none)"
	}
	userPrompt := fmt.Sprintf(
		"Active Unit: %s\n\nQuestion:\n%s\n\nContext (each line is a cited snippet):\n%s\n\nWrite a short answer first. Do not fabricate details.",
		unit, question, contextText,
	)

	answer, err := a.llm.ChatCompletion(ctx, a.model, []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	answer = strings.TrimSpace(answer)

	if refs := References(results); refs != "" {
		answer += "\n\n" + refs
	}
	return answer, nil
}
