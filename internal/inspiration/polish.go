package inspiration

import (
	"context"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/prompts"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// PolishPrompt rewrites a free-text teacher request into a clear generation
// brief via one lite-tier completion. On failure the original prompt is
// returned unchanged with whatever usage was consumed.
func PolishPrompt(ctx context.Context, client llm.Client, req *types.GenerationRequest) (string, types.TokenUsage, error) {
	template := prompts.MustGet("standard.json", "polish_prompt")
	prompt := prompts.Format(template, map[string]string{
		"Grade":   req.Grade,
		"Subject": req.Subject,
		"Prompt":  req.Prompt,
	})

	completion, err := client.Complete(ctx, prompt, llm.TierLite)
	if err != nil {
		return req.Prompt, types.TokenUsage{}, err
	}

	polished := strings.TrimSpace(completion.Content)
	if polished == "" {
		return req.Prompt, completion.Usage, nil
	}
	return polished, completion.Usage, nil
}
