// Package planner turns a generation request into a structured content plan
// via one text-completion call, with a deterministic fallback plan when the
// call fails.
package planner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/prompts"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Result is the outcome of one plan-building attempt.
type Result struct {
	Plan         *types.ContentPlan
	Usage        types.TokenUsage
	UsedFallback bool
}

// BuildPlan issues exactly one text-completion call and parses the response
// into a content plan. On any failure (provider error, malformed response)
// it returns the deterministic fallback skeleton with zero token usage, so
// the pipeline can still produce something rather than aborting.
func BuildPlan(ctx context.Context, client llm.Client, req *types.GenerationRequest, inspiration string, maxVisuals int) *Result {
	prompt := buildPlanPrompt(req, inspiration, maxVisuals)

	completion, err := client.CompleteJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		fmt.Printf("Warning: plan builder call failed, using fallback plan: %v\n", err)
		return &Result{Plan: FallbackPlan(req), UsedFallback: true}
	}

	plan, err := parsePlanJSON([]byte(completion.Content), req)
	if err != nil {
		fmt.Printf("Warning: plan response malformed, using fallback plan: %v\n", err)
		return &Result{Plan: FallbackPlan(req), Usage: completion.Usage, UsedFallback: true}
	}

	return &Result{Plan: plan, Usage: completion.Usage}
}

func buildPlanPrompt(req *types.GenerationRequest, inspiration string, maxVisuals int) string {
	difficulty := string(req.Difficulty)
	if difficulty == "" {
		difficulty = string(types.DifficultyMedium)
	}

	inspirationBlock := ""
	if inspiration != "" {
		inspirationBlock = "Reference material the teacher provided:\n" + inspiration + "\n\n"
	}

	visualsRule := `- Do not suggest visual placements; return an empty "visuals" array.`
	if maxVisuals > 0 {
		visualsRule = fmt.Sprintf("- Suggest up to %d visual placements: where an illustration would help, what it should show, and a relevance priority between 0.0 and 1.0.", maxVisuals)
	}

	template := prompts.MustGet("planner.json", "worksheet_plan")
	return prompts.Format(template, map[string]string{
		"Grade":         req.Grade,
		"Subject":       req.Subject,
		"Prompt":        req.Prompt,
		"Inspiration":   inspirationBlock,
		"QuestionCount": strconv.Itoa(req.QuestionCount),
		"Difficulty":    difficulty,
		"VisualsRule":   visualsRule,
	})
}

// FallbackPlan derives a content-free skeleton plan purely from the request's
// structural options: the requested number of empty question slots and a
// generic objective. It consumes zero tokens.
func FallbackPlan(req *types.GenerationRequest) *types.ContentPlan {
	items := make([]types.WorksheetItem, req.QuestionCount)
	for i := range items {
		items[i] = types.WorksheetItem{
			Number: i + 1,
			Prompt: fmt.Sprintf("Question %d", i+1),
		}
	}

	return &types.ContentPlan{
		Title:     fmt.Sprintf("%s Worksheet: %s", req.Subject, truncate(req.Prompt, 60)),
		Objective: fmt.Sprintf("Practice %s skills for %s.", req.Subject, req.Grade),
		Grade:     req.Grade,
		Subject:   req.Subject,
		Sections: []types.PlanSection{
			{
				Kind:  types.SectionQuestions,
				Title: "Questions",
				Items: items,
			},
		},
	}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}
