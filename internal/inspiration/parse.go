// Package inspiration reduces teacher-provided reference materials to plain
// text and polishes free-text prompts. Both are request-shaped-in,
// text-shaped-out helpers the orchestrator treats as black boxes.
package inspiration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// maxMaterialBytes bounds how much of a fetched page is read.
const maxMaterialBytes = 512 << 10

// maxMaterialChars bounds how much text one material contributes to a prompt.
const maxMaterialChars = 2000

// Parser extracts text from inspiration materials.
type Parser struct {
	http *http.Client
}

// NewParser creates a parser with a bounded HTTP client.
func NewParser() *Parser {
	return &Parser{http: &http.Client{Timeout: 20 * time.Second}}
}

// Parse reduces the request's inspiration materials to a single text block.
// Inline text is used as-is; URL materials are fetched and stripped to
// readable text. Per-material failures are logged and skipped; parsing never
// fails the run.
func (p *Parser) Parse(ctx context.Context, materials []types.InspirationMaterial) string {
	var blocks []string
	for _, material := range materials {
		text := material.Text
		if text == "" && material.URL != "" {
			fetched, err := p.fetchText(ctx, material.URL)
			if err != nil {
				fmt.Printf("Warning: failed to parse inspiration material %q: %v\n", material.URL, err)
				continue
			}
			text = fetched
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(text) > maxMaterialChars {
			text = text[:maxMaterialChars]
		}
		if material.Title != "" {
			text = "## " + material.Title + "\n" + text
		}
		blocks = append(blocks, text)
	}
	return strings.Join(blocks, "\n\n")
}

// fetchText retrieves a URL and extracts readable text from its markup.
func (p *Parser) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxMaterialBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer, header").Remove()
	text := doc.Find("body").Text()
	return strings.Join(strings.Fields(text), " "), nil
}
