package stock

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// placeholderPattern matches [IMAGE: description] tokens the standard
// pipeline's text completions emit.
var placeholderPattern = regexp.MustCompile(`\[IMAGE:\s*([^\]]+)\]`)

// Searcher finds a stock photo URL for a description. Returning an empty URL
// (or an error) yields a neutral placeholder box instead.
type Searcher interface {
	SearchURL(ctx context.Context, query string) (string, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string) (string, error)

// SearchURL calls the function.
func (f SearcherFunc) SearchURL(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// Substituter replaces placeholder tokens in rendered markup.
type Substituter struct {
	searcher Searcher
	cache    *URLCache
}

// NewSubstituter creates a substituter. A nil searcher means every token
// becomes a placeholder box.
func NewSubstituter(searcher Searcher, cache *URLCache) *Substituter {
	if cache == nil {
		cache = NewURLCache(DefaultTTL, nil)
	}
	return &Substituter{searcher: searcher, cache: cache}
}

// ReplacePlaceholders substitutes every [IMAGE: ...] token with either a
// found stock image or a neutral placeholder box. Lookup failures degrade to
// the box; they never fail the document.
func (s *Substituter) ReplacePlaceholders(ctx context.Context, markup string) string {
	return placeholderPattern.ReplaceAllStringFunc(markup, func(token string) string {
		match := placeholderPattern.FindStringSubmatch(token)
		description := strings.TrimSpace(match[1])

		if url := s.lookup(ctx, description); url != "" {
			return fmt.Sprintf("<figure><img src=%q alt=%q></figure>",
				url, description)
		}
		return fmt.Sprintf("<div class=\"image-placeholder\">%s</div>",
			html.EscapeString(description))
	})
}

func (s *Substituter) lookup(ctx context.Context, description string) string {
	if s.searcher == nil {
		return ""
	}
	if url, ok := s.cache.Get(description); ok {
		return url
	}
	url, err := s.searcher.SearchURL(ctx, description)
	if err != nil || url == "" {
		return ""
	}
	s.cache.Put(description, url)
	return url
}
