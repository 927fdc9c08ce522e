package quality

import (
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// LessonInput carries everything the lesson-plan rubric scores.
type LessonInput struct {
	Docs          types.Documents
	Plan          *types.ContentPlan
	MinSections   int
	RequireScript bool
}

// EvaluateLessonPlan scores an assembled lesson plan. In addition to the
// shared structure checks, the lesson rubric requires a minimum section
// count, a learning objective, a non-empty materials list, and, when the
// requester is a novice-confidence teacher, an actual teacher script.
func EvaluateLessonPlan(in LessonInput) *types.QualityReport {
	report := &types.QualityReport{Score: 100, Threshold: LessonPlanThreshold}

	minSections := in.MinSections
	if minSections <= 0 {
		minSections = 4
	}
	if len(in.Plan.Sections) < minSections {
		penalize(report, 25, categoryLessonStructure, types.SeverityError,
			fmt.Sprintf("the lesson has %d sections, a complete lesson needs %d", len(in.Plan.Sections), minSections))
	}

	if in.Plan.Objective == "" {
		penalize(report, 20, categoryObjective, types.SeverityError,
			"the lesson has no learning objective")
	}

	if len(in.Plan.Materials) == 0 {
		penalize(report, 15, categoryMaterials, types.SeverityError,
			"the lesson has an empty materials list")
	}

	if in.RequireScript {
		scripted := 0
		for _, section := range in.Plan.Sections {
			if section.TeacherScript != "" {
				scripted++
			}
		}
		if scripted == 0 {
			penalize(report, 20, categoryTeacherScript, types.SeverityError,
				"a teacher script was requested but none was produced")
		} else if scripted < len(in.Plan.Sections) {
			penalize(report, 10, categoryTeacherScript, types.SeverityWarning,
				fmt.Sprintf("only %d of %d sections include a teacher script", scripted, len(in.Plan.Sections)))
		}
	}

	scoreDocumentStructure(report, in.Docs.LessonPlanHTML, "lesson plan")
	scorePrintFriendliness(report, in.Docs.LessonPlanHTML, "lesson plan")

	clamp(report)
	return report
}
