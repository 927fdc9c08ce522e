package pipeline

import (
	"context"
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/assemble"
	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/images"
	"github.com/theronnieguidry/teachers-assistant/internal/planner"
	"github.com/theronnieguidry/teachers-assistant/internal/quality"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
	"github.com/theronnieguidry/teachers-assistant/internal/validation"
)

// runPremiumWorksheet is the plan-validate-illustrate-assemble pipeline. The
// quality gate at the end is the financial backstop: output below the bar is
// never charged.
func runPremiumWorksheet(ctx context.Context, deps *Deps, req *types.GenerationRequest, reservation *credits.Reservation, tracker *progressTracker) (*types.GenerationResult, error) {
	if err := deps.Store.MarkGenerating(ctx, req.ProjectID); err != nil {
		return nil, &PersistenceError{Message: "failed to mark project generating", Cause: err}
	}
	tracker.emit("start", 5, "Starting generation")

	var usage types.TokenUsage

	materials := ""
	if len(req.Inspirations) > 0 && deps.Parser != nil {
		tracker.emit("inspiration", 10, "Reading your reference material")
		materials = deps.Parser.Parse(ctx, req.Inspirations)
	}

	tracker.emit("plan", 20, "Planning the worksheet")
	planResult := planner.BuildPlan(ctx, deps.Client, req, materials, images.CapFor(req.RichnessOrDefault(), req.QuestionCount))
	usage.Add(planResult.Usage)

	tracker.emit("validate", 35, "Checking the plan")
	outcome := validation.EnsureValid(ctx, deps.Client, planResult.Plan, validation.WorksheetRequirements(req))
	usage.Add(outcome.Usage)
	plan := outcome.Plan
	if p := deps.printer(); p != nil {
		p.PrintPlan(plan)
	}

	imgOut := &images.Output{WithinBudget: true}
	if shouldGenerateImages(ctx, deps, req, plan) {
		tracker.emit("images", 40, "Illustrating the worksheet")
		imgOut = images.Run(ctx, deps.Client, plan.Visuals, images.RunOptions{
			Richness:      req.RichnessOrDefault(),
			QuestionCount: req.QuestionCount,
			Grade:         req.Grade,
			Cache:         deps.ImageCache,
			OnProgress: func(completed, total int) {
				percent := 40 + 30*completed/total
				tracker.emit("images", percent, fmt.Sprintf("Illustrating the worksheet (%d of %d)", completed, total))
			},
		})
		if p := deps.printer(); p != nil {
			p.PrintImageStats(imgOut.Stats, imgOut.FilterStats)
		}
	}

	tracker.emit("assemble", 80, "Assembling the documents")
	docs := assemble.Assemble(plan, imgOut.Results, assemble.FlagsFor(req))

	tracker.emit("quality", 85, "Reviewing quality")
	report := quality.EvaluateWorksheet(quality.WorksheetInput{
		Docs:               docs,
		Plan:               plan,
		RequestedQuestions: req.QuestionCount,
		RequireAnswers:     req.IncludeAnswerKey,
		VisualsRequested:   req.WantsVisuals(),
		ImageStats:         imgOut.Stats,
		ImagesWithinBudget: imgOut.WithinBudget,
	})
	if p := deps.printer(); p != nil {
		p.PrintQualityReport(report)
	}
	if !report.ShouldCharge() {
		return nil, &quality.RejectionError{Report: quality.BuildTeacherReport(report)}
	}

	cost := deps.Client.CostCredits(usage)
	charged := chargeable(reservation, cost)

	tracker.emit("persist", 95, "Saving your pack")
	if err := deps.Store.SavePlanSnapshot(ctx, req.ProjectID, plan, outcome.WasRepaired); err != nil {
		fmt.Printf("Warning: failed to save plan snapshot for project %s: %v\n", req.ProjectID, err)
	}
	versionNumber, err := deps.Store.InsertVersion(ctx, &db.VersionInput{
		ProjectID:      req.ProjectID,
		Kind:           types.PipelineWorksheet,
		Documents:      docs,
		InputTokens:    usage.Input,
		OutputTokens:   usage.Output,
		CreditsCharged: charged,
		QualityScore:   report.Score,
		ImageStats:     imgOut.Stats,
	})
	if err != nil {
		return nil, &PersistenceError{Message: "failed to persist version", Cause: err}
	}

	if err := deps.Store.MarkCompleted(ctx, req.ProjectID); err != nil {
		return nil, &PersistenceError{Message: "failed to mark project completed", Cause: err}
	}

	charged = settleAndCharge(ctx, reservation, cost)
	tracker.emit("done", 100, "Done")

	return &types.GenerationResult{
		Kind:           types.PipelineWorksheet,
		Documents:      docs,
		CreditsCharged: charged,
		Tokens:         usage,
		VersionNumber:  versionNumber,
		Worksheet: &types.WorksheetExtras{
			ImageStats:   imgOut.Stats,
			FilterStats:  imgOut.FilterStats,
			QualityScore: report.Score,
			WasRepaired:  outcome.WasRepaired,
			UsedFallback: planResult.UsedFallback,
		},
	}, nil
}

// shouldGenerateImages gates the image pipeline: the request must ask for
// visuals, the plan must have placements, and the capability variant must
// both support image output and be reachable.
func shouldGenerateImages(ctx context.Context, deps *Deps, req *types.GenerationRequest, plan *types.ContentPlan) bool {
	if !req.WantsVisuals() || len(plan.Visuals) == 0 {
		return false
	}
	if !deps.Client.SupportsImages() {
		fmt.Printf("Warning: visuals requested but this model variant cannot generate images; skipping.\n")
		return false
	}
	if !deps.Client.IsAvailable(ctx) {
		fmt.Printf("Warning: image backend unavailable; skipping visuals.\n")
		return false
	}
	return true
}
