package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/quality"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

func TestHTTPStatus_InsufficientCredits(t *testing.T) {
	err := &credits.InsufficientCreditsError{Required: 35}
	assert.Equal(t, http.StatusPaymentRequired, HTTPStatus(err))
}

func TestHTTPStatus_QualityRejection(t *testing.T) {
	err := &quality.RejectionError{Report: &types.TeacherReport{Score: 62}}
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
}

func TestHTTPStatus_ProviderError(t *testing.T) {
	err := &llm.ProviderError{Message: "backend unreachable"}
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestHTTPStatus_WrappedErrorsStillMatch(t *testing.T) {
	err := fmt.Errorf("worksheet generation failed: %w", &llm.ProviderError{Message: "down"})
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestHTTPStatus_UnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
