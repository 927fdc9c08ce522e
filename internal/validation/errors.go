package validation

import "fmt"

// RepairError represents a failure of the single repair pass (LLM call
// failure or an unusable repaired plan). Callers treat it as non-fatal.
type RepairError struct {
	Message string
	Cause   error
}

func (e *RepairError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("repair error: %s", e.Message)
}

func (e *RepairError) Unwrap() error {
	return e.Cause
}
