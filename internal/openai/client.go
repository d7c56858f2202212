// Package openai is a minimal client for OpenAI-compatible embedding and
// chat-completion endpoints. Setting the base URL redirects all calls to a
// compatible gateway (including local model servers).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// embedBatchSize bounds how many inputs go into a single embeddings request.
const embedBatchSize = 32

// Client talks to one OpenAI-compatible API endpoint. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new API client. baseURL defaults to the public
// OpenAI endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Embed maps texts to one embedding vector each, preserving order. Inputs
// are sent in batches to bound request count. An empty input returns an
// empty result without any network call. The response must carry exactly
// one vector per input or the call fails.
func (c *Client) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		part := texts[start:end]

		var result struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		}
		payload := map[string]any{"model": model, "input": part}
		if err := c.post(ctx, "/embeddings", payload, &result); err != nil {
			return nil, err
		}
		if len(result.Data) != len(part) {
			return nil, &ProviderError{
				Provider: "embeddings",
				Message:  fmt.Sprintf("got %d embeddings for %d inputs", len(result.Data), len(part)),
			}
		}
		for _, d := range result.Data {
			out = append(out, d.Embedding)
		}
	}
	return out, nil
}

// ModelEmbedder binds a client to a fixed embedding model so callers that
// only embed do not carry the model name around.
type ModelEmbedder struct {
	client *Client
	model  string
}

// Embedder returns the client bound to the given embedding model.
func (c *Client) Embedder(model string) *ModelEmbedder {
	return &ModelEmbedder{client: c, model: model}
}

// Embed maps texts to vectors using the bound model.
func (e *ModelEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.Embed(ctx, e.model, texts)
}

// Message is one role-tagged turn of a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletion requests a completion and returns the first choice's
// content verbatim.
func (c *Client) ChatCompletion(ctx context.Context, model string, messages []Message) (string, error) {
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	payload := map[string]any{"model": model, "messages": messages}
	if err := c.post(ctx, "/chat/completions", payload, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", &ProviderError{Provider: "chat", Message: "no choices returned"}
	}
	return result.Choices[0].Message.Content, nil
}

// Tool describes a function the model may call, with a JSON Schema for its
// arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is the model's structured invocation of a Tool.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ChatToolCall offers the model a single tool and returns its first call to
// it, or nil when the model answered without calling the tool.
func (c *Client) ChatToolCall(ctx context.Context, model string, messages []Message, tool Tool) (*ToolCall, error) {
	var result struct {
		Choices []struct {
			Message struct {
				ToolCalls []struct {
					Function struct {
						Name      string          `json:"name"`
						Arguments json.RawMessage `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"tools": []map[string]any{{
			"type": "function",
			"function": map[string]any{
				"name":        tool.Name,
				"description": tool.Description,
				"parameters":  tool.Parameters,
			},
		}},
		"tool_choice": "auto",
	}
	if err := c.post(ctx, "/chat/completions", payload, &result); err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, &ProviderError{Provider: "chat", Message: "no choices returned"}
	}
	for _, call := range result.Choices[0].Message.ToolCalls {
		if call.Function.Name == tool.Name {
			args := call.Function.Arguments
			// Some gateways double-encode arguments as a JSON string.
			var quoted string
			if json.Unmarshal(args, &quoted) == nil {
				args = json.RawMessage(quoted)
			}
			return &ToolCall{Name: call.Function.Name, Arguments: args}, nil
		}
	}
	return nil, nil
}

// post sends a JSON payload and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Provider: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Provider: path, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return &ProviderError{Provider: path, StatusCode: resp.StatusCode, Message: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Provider: path, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
