package server

import (
	"errors"
	"net/http"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/quality"
)

// HTTPStatus returns the appropriate HTTP status code for a pipeline error.
func HTTPStatus(err error) int {
	var insufficient *credits.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		return http.StatusPaymentRequired
	}

	var rejection *quality.RejectionError
	if errors.As(err, &rejection) {
		return http.StatusUnprocessableEntity
	}

	var provider *llm.ProviderError
	if errors.As(err, &provider) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
