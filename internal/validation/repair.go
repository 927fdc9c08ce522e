package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/planner"
	"github.com/theronnieguidry/teachers-assistant/internal/prompts"
	"github.com/theronnieguidry/teachers-assistant/internal/schemas"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Outcome is the result of EnsureValid.
type Outcome struct {
	Plan        *types.ContentPlan
	WasRepaired bool
	Usage       types.TokenUsage
	Violations  []Violation // violations remaining after the repair pass, if any
}

// EnsureValid runs the pure structural check and, when it fails, makes at
// most one repair attempt via an AI call that receives the plan and the
// specific violations, then re-validates the result. No further attempts are
// made regardless of outcome: the pipeline proceeds with whatever the single
// repair pass produced, and downstream quality gating is the real backstop
// against low-quality content.
func EnsureValid(ctx context.Context, client llm.Client, plan *types.ContentPlan, reqs Requirements) *Outcome {
	violations := Validate(plan, reqs)
	if len(violations) == 0 {
		return &Outcome{Plan: plan}
	}

	fmt.Printf("Plan failed validation (%d violations), attempting one repair pass...\n", len(violations))

	repaired, usage, err := repairOnce(ctx, client, plan, reqs, violations)
	if err != nil {
		fmt.Printf("Warning: repair pass failed, proceeding with original plan: %v\n", err)
		return &Outcome{Plan: plan, Usage: usage, Violations: violations}
	}

	remaining := Validate(repaired, reqs)
	if len(remaining) > 0 {
		fmt.Printf("Warning: %d violations remain after repair; quality gate will decide.\n", len(remaining))
	}

	return &Outcome{
		Plan:        repaired,
		WasRepaired: true,
		Usage:       usage,
		Violations:  remaining,
	}
}

// repairOnce issues the single repair call and parses the response.
func repairOnce(ctx context.Context, client llm.Client, plan *types.ContentPlan, reqs Requirements, violations []Violation) (*types.ContentPlan, types.TokenUsage, error) {
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, types.TokenUsage{}, &RepairError{Message: "failed to encode plan", Cause: err}
	}

	template := prompts.MustGet("repair.json", "repair_plan")
	prompt := prompts.Format(template, map[string]string{
		"Violations":   formatViolations(violations),
		"Requirements": formatRequirements(reqs),
		"Plan":         string(planJSON),
	})

	completion, err := client.CompleteJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, types.TokenUsage{}, &RepairError{Message: "repair call failed", Cause: err}
	}

	data := []byte(completion.Content)
	if err := schemas.ValidatePlanJSON(data); err != nil {
		return nil, completion.Usage, &RepairError{Message: "repaired plan does not match schema", Cause: err}
	}

	var repaired types.ContentPlan
	if err := json.Unmarshal(data, &repaired); err != nil {
		return nil, completion.Usage, &RepairError{Message: "failed to decode repaired plan", Cause: err}
	}

	// A repaired plan gets the same normalization as a first-pass plan:
	// metadata backfill, item renumbering, visual ID and style fill.
	planner.NormalizePlan(&repaired, reqs.Grade, reqs.Subject, reqs.VisualStyle)

	return &repaired, completion.Usage, nil
}

func formatViolations(violations []Violation) string {
	var sb strings.Builder
	for i, v := range violations {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, v.Code, v.Message))
	}
	return sb.String()
}

func formatRequirements(reqs Requirements) string {
	var sb strings.Builder
	if reqs.MinQuestions > 0 {
		sb.WriteString(fmt.Sprintf("- Between %d and %d questions.\n", reqs.MinQuestions, reqs.MaxQuestions))
	}
	if reqs.RequireAnswers {
		sb.WriteString("- Every question must carry its expected answer.\n")
	}
	if reqs.MinSections > 0 {
		sb.WriteString(fmt.Sprintf("- At least %d sections (warm_up, instruction, practice, closing).\n", reqs.MinSections))
	}
	if reqs.RequireObjective {
		sb.WriteString("- A non-empty learning objective.\n")
	}
	if reqs.RequireMaterials {
		sb.WriteString("- A non-empty materials list.\n")
	}
	if reqs.RequireScript {
		sb.WriteString("- Every section must include a word-for-word teacher script.\n")
	}
	sb.WriteString(fmt.Sprintf("- Content appropriate for %s %s.\n", reqs.Grade, reqs.Subject))
	return sb.String()
}
