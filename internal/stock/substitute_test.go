package stock

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacePlaceholders_FoundImageBecomesFigure(t *testing.T) {
	searcher := SearcherFunc(func(ctx context.Context, query string) (string, error) {
		return "https://photos.example.com/fractions.jpg", nil
	})
	sub := NewSubstituter(searcher, nil)

	out := sub.ReplacePlaceholders(context.Background(),
		"<p>Intro</p>[IMAGE: pizza cut into fractions]<p>Outro</p>")

	assert.Contains(t, out, `<figure><img src="https://photos.example.com/fractions.jpg"`)
	assert.Contains(t, out, `alt="pizza cut into fractions"`)
	assert.NotContains(t, out, "[IMAGE:")
}

func TestReplacePlaceholders_LookupFailureDegradesToBox(t *testing.T) {
	searcher := SearcherFunc(func(ctx context.Context, query string) (string, error) {
		return "", errors.New("provider down")
	})
	sub := NewSubstituter(searcher, nil)

	out := sub.ReplacePlaceholders(context.Background(), "[IMAGE: a <bold> claim]")

	assert.Contains(t, out, `<div class="image-placeholder">`)
	assert.Contains(t, out, "a &lt;bold&gt; claim")
	assert.NotContains(t, out, "<figure>")
}

func TestReplacePlaceholders_NilSearcherAlwaysBoxes(t *testing.T) {
	sub := NewSubstituter(nil, nil)

	out := sub.ReplacePlaceholders(context.Background(),
		"[IMAGE: one][IMAGE: two]")

	assert.NotContains(t, out, "<figure>")
	assert.Equal(t, 2, strings.Count(out, "image-placeholder"))
}

func TestReplacePlaceholders_RepeatDescriptionsHitTheCache(t *testing.T) {
	calls := 0
	searcher := SearcherFunc(func(ctx context.Context, query string) (string, error) {
		calls++
		return "https://photos.example.com/cell.jpg", nil
	})
	sub := NewSubstituter(searcher, nil)

	out := sub.ReplacePlaceholders(context.Background(),
		"[IMAGE: plant cell diagram] and later [IMAGE: Plant  Cell   Diagram]")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, strings.Count(out, "photos.example.com/cell.jpg"))
}

func TestURLCache_ExpiresAfterTTL(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cache := NewURLCache(time.Hour, func() time.Time { return clock })

	cache.Put("water cycle", "https://photos.example.com/water.jpg")

	url, ok := cache.Get("water cycle")
	require.True(t, ok)
	assert.Equal(t, "https://photos.example.com/water.jpg", url)

	clock = clock.Add(2 * time.Hour)

	_, ok = cache.Get("water cycle")
	assert.False(t, ok)
}

func TestNormalizeQuery_CollapsesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, "plant cell diagram", normalizeQuery("  Plant\tCELL   diagram "))
}
