package credits

import "fmt"

// InsufficientCreditsError indicates a reservation failed because the balance
// does not cover the amount. No side effects occurred; the request is safe to
// retry after funding.
type InsufficientCreditsError struct {
	Required int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: %d required", e.Required)
}
