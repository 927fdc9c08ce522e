package main

import (
	"context"
	"fmt"
	"os"

	"github.com/theronnieguidry/teachers-assistant/internal/config"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
)

// buildClient constructs the capability client from merged configuration.
// The cloud variant requires an API key; the local variant requires a
// reachable Ollama host and never charges credits.
func buildClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	variant := llm.VariantCloud
	if cfg.Variant == string(llm.VariantLocal) {
		variant = llm.VariantLocal
	}

	llmConfig := llm.DefaultConfig(variant)
	if cfg.OllamaHost != "" {
		llmConfig.OllamaHost = cfg.OllamaHost
	}

	apiKey := cfg.APIKey
	if variant == llm.VariantCloud {
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required for the cloud variant")
		}
	}

	return llm.NewClient(ctx, llmConfig, apiKey)
}
