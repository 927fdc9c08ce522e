package pipeline

import (
	"errors"
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/quality"
)

// PersistenceError indicates a version or status write failed. Fatal: the run
// cannot be considered successful without a durable record.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persistence error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persistence error: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// UserMessage translates a pipeline error into short, non-technical text
// suitable for direct display. The internal error is never leaked raw.
func UserMessage(err error) string {
	var insufficient *credits.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		return "You don't have enough credits for this generation. Add credits and try again."
	}

	var rejection *quality.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Error()
	}

	var provider *llm.ProviderError
	if errors.As(err, &provider) {
		return "The AI service is temporarily unavailable. You have not been charged. Please try again in a few minutes."
	}

	var persistence *PersistenceError
	if errors.As(err, &persistence) {
		return "We couldn't save your teacher pack. You have not been charged. Please try again."
	}

	return "Generation failed unexpectedly. You have not been charged."
}
