package llm

import "fmt"

// ProviderError represents a capability call failure: the backend errored,
// timed out, or returned an unusable response. Recoverable by fallback in the
// plan builder, fatal elsewhere.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
