package pipeline

import (
	"context"
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/assemble"
	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/planner"
	"github.com/theronnieguidry/teachers-assistant/internal/quality"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
	"github.com/theronnieguidry/teachers-assistant/internal/validation"
)

// runPremiumLessonPlan builds a structured lesson plan, optionally with an
// aligned worksheet when the combined format is requested. The worksheet
// sub-pipeline is best-effort: its failure never fails the lesson run.
func runPremiumLessonPlan(ctx context.Context, deps *Deps, req *types.GenerationRequest, reservation *credits.Reservation, tracker *progressTracker) (*types.GenerationResult, error) {
	if err := deps.Store.MarkGenerating(ctx, req.ProjectID); err != nil {
		return nil, &PersistenceError{Message: "failed to mark project generating", Cause: err}
	}
	tracker.emit("start", 5, "Starting generation")

	var usage types.TokenUsage

	tracker.emit("plan", 25, "Structuring the lesson")
	planResult := planner.BuildLessonStructure(ctx, deps.Client, req)
	usage.Add(planResult.Usage)

	tracker.emit("validate", 40, "Checking the lesson structure")
	outcome := validation.EnsureValid(ctx, deps.Client, planResult.Plan, validation.LessonRequirements(req))
	usage.Add(outcome.Usage)
	plan := outcome.Plan

	tracker.emit("assemble", 55, "Assembling the lesson documents")
	docs := assemble.Assemble(plan, nil, assemble.FlagsFor(req))

	hasWorksheet := false
	if req.Format == types.FormatCombined {
		tracker.emit("worksheet", 70, "Adding an aligned worksheet")
		wsDocs, wsUsage, ok := buildAlignedWorksheet(ctx, deps, req, plan.Objective)
		usage.Add(wsUsage)
		if ok {
			docs.WorksheetHTML = wsDocs.WorksheetHTML
			if req.IncludeAnswerKey {
				docs.AnswerKeyHTML = wsDocs.AnswerKeyHTML
			}
			hasWorksheet = true
		}
	}

	tracker.emit("quality", 80, "Reviewing quality")
	report := quality.EvaluateLessonPlan(quality.LessonInput{
		Docs:          docs,
		Plan:          plan,
		MinSections:   4,
		RequireScript: req.ConfidenceOrDefault() == types.ConfidenceNovice,
	})
	if p := deps.printer(); p != nil {
		p.PrintQualityReport(report)
	}
	if !report.ShouldCharge() {
		return nil, &quality.RejectionError{Report: quality.BuildTeacherReport(report)}
	}

	cost := deps.Client.CostCredits(usage)
	charged := chargeable(reservation, cost)

	tracker.emit("persist", 90, "Saving your pack")
	if err := deps.Store.SavePlanSnapshot(ctx, req.ProjectID, plan, outcome.WasRepaired); err != nil {
		fmt.Printf("Warning: failed to save plan snapshot for project %s: %v\n", req.ProjectID, err)
	}
	versionNumber, err := deps.Store.InsertVersion(ctx, &db.VersionInput{
		ProjectID:      req.ProjectID,
		Kind:           types.PipelineLessonPlan,
		Documents:      docs,
		InputTokens:    usage.Input,
		OutputTokens:   usage.Output,
		CreditsCharged: charged,
		QualityScore:   report.Score,
	})
	if err != nil {
		return nil, &PersistenceError{Message: "failed to persist version", Cause: err}
	}

	if err := deps.Store.MarkCompleted(ctx, req.ProjectID); err != nil {
		return nil, &PersistenceError{Message: "failed to mark project completed", Cause: err}
	}

	charged = settleAndCharge(ctx, reservation, cost)
	tracker.emit("done", 100, "Done")

	duration := 0
	for _, section := range plan.Sections {
		duration += section.DurationMinutes
	}

	return &types.GenerationResult{
		Kind:           types.PipelineLessonPlan,
		Documents:      docs,
		CreditsCharged: charged,
		Tokens:         usage,
		VersionNumber:  versionNumber,
		Lesson: &types.LessonExtras{
			SectionCount:    len(plan.Sections),
			DurationMinutes: duration,
			QualityScore:    report.Score,
			HasWorksheet:    hasWorksheet,
		},
	}, nil
}

// buildAlignedWorksheet runs a trimmed worksheet sub-pipeline (plan, validate,
// assemble; no images) for the combined format, with the lesson's objective
// folded into the planning request so the questions practice what the lesson
// teaches. Any failure, including a panic, degrades to lesson-only output.
func buildAlignedWorksheet(ctx context.Context, deps *Deps, req *types.GenerationRequest, objective string) (docs types.Documents, usage types.TokenUsage, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Warning: aligned worksheet failed, delivering lesson plan only: %v\n", r)
			ok = false
		}
	}()

	wsReq := *req
	if objective != "" {
		wsReq.Prompt = fmt.Sprintf("%s\n\nEvery question must practice this lesson objective: %s", req.Prompt, objective)
	}

	planResult := planner.BuildPlan(ctx, deps.Client, &wsReq, "", 0)
	usage.Add(planResult.Usage)

	outcome := validation.EnsureValid(ctx, deps.Client, planResult.Plan, validation.WorksheetRequirements(&wsReq))
	usage.Add(outcome.Usage)

	docs = assemble.Assemble(outcome.Plan, nil, assemble.Flags{
		Worksheet: true,
		AnswerKey: req.IncludeAnswerKey,
	})
	return docs, usage, true
}
