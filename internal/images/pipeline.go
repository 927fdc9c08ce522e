package images

import (
	"context"
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// RunOptions configures one image pipeline run.
type RunOptions struct {
	Richness      types.VisualRichness
	QuestionCount int
	Grade         string
	Cache         *Cache
	OnProgress    func(completed, total int)
}

// Output is the full image pipeline outcome.
type Output struct {
	Results      []types.ImageResult
	Stats        types.ImageStats
	FilterStats  types.FilterStats
	WithinBudget bool
}

// Run executes the three stages over the plan's visual placements: relevance
// filter + cap, resilient batch generation, then compression + aggregate size
// validation. An error escaping the whole pipeline (including a panic)
// degrades the run to "no images" rather than aborting generation.
func Run(ctx context.Context, client llm.Client, placements []types.VisualPlacement, opts RunOptions) (out *Output) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Warning: image pipeline failed, continuing without images: %v\n", r)
			out = &Output{WithinBudget: true}
		}
	}()

	accepted, filterStats := Filter(placements, opts.Richness, opts.QuestionCount)

	results, stats := GenerateBatch(ctx, client, accepted, BatchOptions{
		Grade:      opts.Grade,
		Cache:      opts.Cache,
		OnProgress: opts.OnProgress,
	})

	withinBudget := CompressAll(results, opts.Richness)
	if !withinBudget {
		fmt.Printf("Warning: aggregate image size exceeds the printable budget; quality gate decides whether to charge.\n")
	}

	return &Output{
		Results:      results,
		Stats:        stats,
		FilterStats:  filterStats,
		WithinBudget: withinBudget,
	}
}
