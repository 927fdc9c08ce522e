package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/inspiration"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/prompts"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// runStandard is the no-structured-planning pipeline: sequential text
// completions for worksheet, optional lesson plan, and optional answer key,
// each post-processed to replace visual placeholders with stock images or
// neutral placeholder boxes.
func runStandard(ctx context.Context, deps *Deps, req *types.GenerationRequest, reservation *credits.Reservation, tracker *progressTracker) (*types.GenerationResult, error) {
	if err := deps.Store.MarkGenerating(ctx, req.ProjectID); err != nil {
		return nil, &PersistenceError{Message: "failed to mark project generating", Cause: err}
	}
	tracker.emit("start", 5, "Starting generation")

	var usage types.TokenUsage

	materials := ""
	if len(req.Inspirations) > 0 && deps.Parser != nil {
		materials = deps.Parser.Parse(ctx, req.Inspirations)
	}

	prompt := req.Prompt
	if !req.PromptPolished {
		tracker.emit("polish", 15, "Refining your request")
		polished, polishUsage, err := inspiration.PolishPrompt(ctx, deps.Client, req)
		usage.Add(polishUsage)
		if err != nil {
			// Polishing is a nicety; the original prompt still works.
			fmt.Printf("Warning: prompt polishing failed, using original prompt: %v\n", err)
		}
		prompt = polished
	}

	tracker.emit("worksheet", 40, "Writing the worksheet")
	worksheetHTML, err := completeDocument(ctx, deps, "worksheet_text", map[string]string{
		"Grade":         req.Grade,
		"Subject":       req.Subject,
		"Prompt":        prompt,
		"Inspiration":   inspirationBlock(materials),
		"QuestionCount": strconv.Itoa(req.QuestionCount),
		"Difficulty":    difficultyOrDefault(req),
	}, &usage)
	if err != nil {
		return nil, fmt.Errorf("worksheet generation failed: %w", err)
	}

	var docs types.Documents
	docs.WorksheetHTML = worksheetHTML

	if req.Format == types.FormatLessonPlan || req.Format == types.FormatCombined {
		tracker.emit("lesson", 60, "Writing the lesson plan")
		lessonHTML, err := completeDocument(ctx, deps, "lesson_text", map[string]string{
			"Grade":   req.Grade,
			"Subject": req.Subject,
			"Prompt":  prompt,
		}, &usage)
		if err != nil {
			return nil, fmt.Errorf("lesson plan generation failed: %w", err)
		}
		docs.LessonPlanHTML = lessonHTML
	}

	if req.IncludeAnswerKey {
		tracker.emit("answer_key", 75, "Writing the answer key")
		answerKeyHTML, err := completeDocument(ctx, deps, "answer_key_text", map[string]string{
			"Worksheet": docs.WorksheetHTML,
		}, &usage)
		if err != nil {
			return nil, fmt.Errorf("answer key generation failed: %w", err)
		}
		docs.AnswerKeyHTML = answerKeyHTML
	}

	cost := deps.Client.CostCredits(usage)
	charged := chargeable(reservation, cost)

	tracker.emit("persist", 90, "Saving your pack")
	versionNumber, err := deps.Store.InsertVersion(ctx, &db.VersionInput{
		ProjectID:      req.ProjectID,
		Kind:           types.PipelineStandard,
		Documents:      docs,
		InputTokens:    usage.Input,
		OutputTokens:   usage.Output,
		CreditsCharged: charged,
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
		Kind:           types.PipelineStandard,
		Documents:      docs,
		CreditsCharged: charged,
		Tokens:         usage,
		VersionNumber:  versionNumber,
	}, nil
}

// completeDocument runs one templated text completion and post-processes the
// output through the stock placeholder substituter.
func completeDocument(ctx context.Context, deps *Deps, promptKey string, data map[string]string, usage *types.TokenUsage) (string, error) {
	template := prompts.MustGet("standard.json", promptKey)
	completion, err := deps.Client.Complete(ctx, prompts.Format(template, data), llm.TierStandard)
	if err != nil {
		return "", err
	}
	usage.Add(completion.Usage)

	markup := completion.Content
	if deps.Stock != nil {
		markup = deps.Stock.ReplacePlaceholders(ctx, markup)
	}
	return markup, nil
}

func inspirationBlock(materials string) string {
	if materials == "" {
		return ""
	}
	return "Reference material the teacher provided:\n" + materials + "\n\n"
}

func difficultyOrDefault(req *types.GenerationRequest) string {
	if req.Difficulty == "" {
		return string(types.DifficultyMedium)
	}
	return string(req.Difficulty)
}
