package images

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// BatchOptions configures the concurrent generation stage.
type BatchOptions struct {
	Concurrency int           // bounded fan-out; default 4
	Timeout     time.Duration // per-call timeout; default 45s
	Grade       string
	Cache       *Cache
	OnProgress  func(completed, total int) // called in completion order
}

// GenerateBatch fans out one image-completion call per accepted placement.
// Calls run concurrently up to the bounded fan-out; each call has an
// individual timeout and up to one retry; the cache short-circuits repeat
// requests. The batch never fails as a whole: each placement independently
// yields a generated/cached/failed outcome, failures are omitted from the
// returned list, and the aggregate stats always satisfy
// generated + cached + failed == total.
func GenerateBatch(ctx context.Context, client llm.Client, placements []types.VisualPlacement, opts BatchOptions) ([]types.ImageResult, types.ImageStats) {
	stats := types.ImageStats{Total: len(placements)}
	if len(placements) == 0 {
		return nil, stats
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewCache()
	}

	outcomes := make([]types.ImageResult, len(placements))

	var mu sync.Mutex
	completed := 0
	reportProgress := func() {
		mu.Lock()
		completed++
		done := completed
		mu.Unlock()
		if opts.OnProgress != nil {
			opts.OnProgress(done, len(placements))
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, placement := range placements {
		g.Go(func() error {
			outcomes[i] = generateOne(gCtx, client, placement, opts.Timeout, cache, opts.Grade)
			reportProgress()
			return nil // per-placement failures never abort the batch
		})
	}
	_ = g.Wait()

	var results []types.ImageResult
	for _, outcome := range outcomes {
		if !outcome.OK {
			stats.Failed++
			continue
		}
		if outcome.Source == types.SourceCached {
			stats.Cached++
		} else {
			stats.Generated++
		}
		results = append(results, outcome)
	}

	return results, stats
}

// generateOne resolves a single placement: cache lookup, then up to two
// attempts against the provider, each under its own timeout. Any failure,
// including a panic inside the provider call, is contained here and recorded
// as a failed outcome.
func generateOne(ctx context.Context, client llm.Client, placement types.VisualPlacement, timeout time.Duration, cache *Cache, grade string) (result types.ImageResult) {
	result = types.ImageResult{Placement: placement}

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Warning: image generation panicked for %q: %v\n", placement.ID, r)
			result.OK = false
			result.Content = nil
		}
	}()

	key := Key(placement.Description, placement.Style)
	if content, ok := cache.Get(key); ok {
		result.Content = content
		result.MIMEType = "image/png"
		result.Source = types.SourceCached
		result.OK = true
		return result
	}

	req := llm.ImageRequest{
		Description: placement.Description,
		Style:       placement.Style,
		Grade:       grade,
	}

	var content []byte
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		content, err = client.CompleteImage(callCtx, req)
		cancel()
		if err == nil {
			break
		}
	}
	if err != nil {
		fmt.Printf("Warning: image generation failed for %q: %v\n", placement.ID, err)
		return result
	}

	cache.Put(key, content)
	result.Content = content
	result.MIMEType = "image/png"
	result.Source = types.SourceGenerated
	result.OK = true
	return result
}
