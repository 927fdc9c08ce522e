package pipeline

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theronnieguidry/teachers-assistant/internal/observability"
)

func TestDeps_PrinterIsGatedByVerbose(t *testing.T) {
	p := observability.NewPrinter(io.Discard)
	deps := &Deps{Printer: p}

	assert.Nil(t, deps.printer(), "quiet runs print no diagnostics")

	deps.Verbose = true
	assert.Same(t, p, deps.printer())
}
