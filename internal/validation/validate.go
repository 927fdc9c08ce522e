// Package validation checks content plans against structural requirements and
// attempts one automated repair pass before giving up. The quality gate, not
// this package, is the final authority on whether a run is billable.
package validation

import (
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Requirements are the structural constraints a plan must satisfy.
type Requirements struct {
	MinQuestions   int
	MaxQuestions   int
	Grade          string
	Subject        string
	VisualStyle    string
	RequireAnswers bool

	// Lesson-specific rubric; zero values disable each check.
	MinSections      int
	RequireObjective bool
	RequireMaterials bool
	RequireScript    bool
}

// WorksheetRequirements builds the standard worksheet rubric from a request.
func WorksheetRequirements(req *types.GenerationRequest) Requirements {
	style := ""
	if req.Visuals != nil {
		style = req.Visuals.Style
	}
	return Requirements{
		MinQuestions:   req.QuestionCount,
		MaxQuestions:   req.QuestionCount,
		Grade:          req.Grade,
		Subject:        req.Subject,
		VisualStyle:    style,
		RequireAnswers: req.IncludeAnswerKey,
	}
}

// LessonRequirements builds the lesson-plan rubric from a request.
func LessonRequirements(req *types.GenerationRequest) Requirements {
	return Requirements{
		Grade:            req.Grade,
		Subject:          req.Subject,
		MinSections:      4, // warm-up, instruction, practice, closing
		RequireObjective: true,
		RequireMaterials: true,
		RequireScript:    req.ConfidenceOrDefault() == types.ConfidenceNovice,
	}
}

// Violation is a single structural failure found in a plan.
type Violation struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Validate runs the pure structural check. No AI calls.
func Validate(plan *types.ContentPlan, reqs Requirements) []Violation {
	var violations []Violation

	questionCount := plan.CountQuestions()
	if reqs.MinQuestions > 0 && questionCount < reqs.MinQuestions {
		violations = append(violations, Violation{
			Code:     "question_count_low",
			Message:  fmt.Sprintf("plan has %d questions, at least %d required", questionCount, reqs.MinQuestions),
			Severity: "error",
		})
	}
	if reqs.MaxQuestions > 0 && questionCount > reqs.MaxQuestions {
		violations = append(violations, Violation{
			Code:     "question_count_high",
			Message:  fmt.Sprintf("plan has %d questions, at most %d allowed", questionCount, reqs.MaxQuestions),
			Severity: "error",
		})
	}

	if reqs.RequireAnswers {
		missing := 0
		for _, section := range plan.Sections {
			for _, item := range section.Items {
				if item.Answer == "" {
					missing++
				}
			}
		}
		if missing > 0 {
			violations = append(violations, Violation{
				Code:     "answers_missing",
				Message:  fmt.Sprintf("%d questions are missing expected answers", missing),
				Severity: "error",
			})
		}
	}

	if reqs.MinSections > 0 && len(plan.Sections) < reqs.MinSections {
		violations = append(violations, Violation{
			Code:     "section_count_low",
			Message:  fmt.Sprintf("plan has %d sections, at least %d required", len(plan.Sections), reqs.MinSections),
			Severity: "error",
		})
	}

	if reqs.RequireObjective && plan.Objective == "" {
		violations = append(violations, Violation{
			Code:     "objective_missing",
			Message:  "plan has no learning objective",
			Severity: "error",
		})
	}

	if reqs.RequireMaterials && len(plan.Materials) == 0 {
		violations = append(violations, Violation{
			Code:     "materials_missing",
			Message:  "plan has an empty materials list",
			Severity: "error",
		})
	}

	if reqs.RequireScript {
		unscripted := 0
		for _, section := range plan.Sections {
			if section.TeacherScript == "" {
				unscripted++
			}
		}
		if unscripted > 0 {
			violations = append(violations, Violation{
				Code:     "teacher_script_missing",
				Message:  fmt.Sprintf("%d sections are missing a teacher script", unscripted),
				Severity: "error",
			})
		}
	}

	return violations
}
