// Package quality scores assembled output against a rubric and yields the
// accept/reject decision that determines whether a run is billable.
package quality

import (
	"fmt"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Thresholds are fixed per pipeline: the worksheet and lesson-plan pipelines
// use different rubrics.
const (
	WorksheetThreshold  = 70
	LessonPlanThreshold = 65
)

// Internal rubric category names. Never surfaced to teachers verbatim; see
// report.go for the teacher-facing taxonomy.
const (
	categoryQuestionCoverage = "question_coverage"
	categoryAnswerKey        = "answer_key"
	categoryStructure        = "structure"
	categoryFormatting       = "formatting"
	categoryVisuals          = "visuals"
	categoryLessonStructure  = "lesson_structure"
	categoryObjective        = "objective"
	categoryMaterials        = "materials"
	categoryTeacherScript    = "teacher_script"
)

// WorksheetInput carries everything the worksheet rubric scores.
type WorksheetInput struct {
	Docs               types.Documents
	Plan               *types.ContentPlan
	RequestedQuestions int
	RequireAnswers     bool
	VisualsRequested   bool
	// ImageStats.Total is the accepted-placement count, so the expected-image
	// check is tolerant of placements the relevance filter dropped.
	ImageStats         types.ImageStats
	ImagesWithinBudget bool
}

// EvaluateWorksheet scores the assembled worksheet against the rubric.
// Score is 100 minus weighted penalties, clamped at 0; a report with zero
// issues always scores 100 and charges.
func EvaluateWorksheet(in WorksheetInput) *types.QualityReport {
	report := &types.QualityReport{Score: 100, Threshold: WorksheetThreshold}

	scoreQuestionCoverage(report, in.Plan, in.RequestedQuestions)

	if in.RequireAnswers {
		scoreAnswerKey(report, in.Docs.AnswerKeyHTML, in.Plan)
	}

	scoreDocumentStructure(report, in.Docs.WorksheetHTML, "worksheet")
	scorePrintFriendliness(report, in.Docs.WorksheetHTML, "worksheet")

	if in.VisualsRequested {
		scoreVisuals(report, in.ImageStats, in.ImagesWithinBudget)
	}

	clamp(report)
	return report
}

func scoreQuestionCoverage(report *types.QualityReport, plan *types.ContentPlan, requested int) {
	if requested <= 0 {
		return
	}
	actual := plan.CountQuestions()
	switch {
	case actual == 0:
		penalize(report, 50, categoryQuestionCoverage, types.SeverityError,
			"the worksheet contains no questions")
	case actual < requested:
		missing := requested - actual
		penalty := 40 * missing / requested
		if penalty < 10 {
			penalty = 10
		}
		penalize(report, penalty, categoryQuestionCoverage, types.SeverityError,
			fmt.Sprintf("only %d of the %d requested questions were produced", actual, requested))
	case actual > requested:
		penalize(report, 5, categoryQuestionCoverage, types.SeverityWarning,
			fmt.Sprintf("%d questions were produced, more than the %d requested", actual, requested))
	}
}

func scoreAnswerKey(report *types.QualityReport, answerKeyHTML string, plan *types.ContentPlan) {
	if answerKeyHTML == "" {
		penalize(report, 20, categoryAnswerKey, types.SeverityError,
			"an answer key was requested but not produced")
		return
	}

	total, missing := 0, 0
	for _, section := range plan.Sections {
		for _, item := range section.Items {
			total++
			if item.Answer == "" {
				missing++
			}
		}
	}
	if total > 0 && missing > 0 {
		penalty := 15 * missing / total
		if penalty < 5 {
			penalty = 5
		}
		penalize(report, penalty, categoryAnswerKey, types.SeverityError,
			fmt.Sprintf("%d of %d questions have no answer in the key", missing, total))
	}
}

func scoreDocumentStructure(report *types.QualityReport, doc, name string) {
	if doc == "" {
		penalize(report, 25, categoryStructure, types.SeverityError,
			fmt.Sprintf("the %s document is empty", name))
		return
	}
	if !strings.Contains(doc, "<h1>") {
		penalize(report, 10, categoryStructure, types.SeverityWarning,
			fmt.Sprintf("the %s has no title heading", name))
	}
	if strings.Count(doc, "<") != strings.Count(doc, ">") {
		penalize(report, 10, categoryStructure, types.SeverityWarning,
			fmt.Sprintf("the %s markup looks malformed", name))
	}
}

func scorePrintFriendliness(report *types.QualityReport, doc, name string) {
	lower := strings.ToLower(doc)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "<style") {
		penalize(report, 10, categoryFormatting, types.SeverityWarning,
			fmt.Sprintf("the %s contains markup that does not print reliably", name))
	}
}

func scoreVisuals(report *types.QualityReport, stats types.ImageStats, withinBudget bool) {
	delivered := stats.Generated + stats.Cached
	if stats.Total > 0 && delivered == 0 {
		penalize(report, 10, categoryVisuals, types.SeverityWarning,
			"images were requested but none could be generated")
	}
	if !withinBudget {
		penalize(report, 5, categoryVisuals, types.SeverityWarning,
			"the combined image size may slow down printing")
	}
}

func penalize(report *types.QualityReport, penalty int, category string, severity types.IssueSeverity, message string) {
	report.Score -= penalty
	report.Issues = append(report.Issues, types.QualityIssue{
		Category: category,
		Message:  message,
		Severity: severity,
	})
}

func clamp(report *types.QualityReport) {
	if report.Score < 0 {
		report.Score = 0
	}
	if report.Score > 100 {
		report.Score = 100
	}
}
