package openai

import "fmt"

// ProviderError reports a failed embedding or completion call. The client
// never retries; callers may, since nothing is mutated on failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (%s, status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Provider, e.Message)
}
