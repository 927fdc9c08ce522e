package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

func questionPlan(count int, withAnswers bool) *types.ContentPlan {
	items := make([]types.WorksheetItem, count)
	for i := range items {
		items[i] = types.WorksheetItem{Number: i + 1, Prompt: "What is 2+2?"}
		if withAnswers {
			items[i].Answer = "4"
		}
	}
	return &types.ContentPlan{
		Title:     "Arithmetic Practice",
		Objective: "Add single-digit numbers.",
		Sections: []types.PlanSection{
			{Kind: types.SectionQuestions, Title: "Questions", Items: items},
		},
	}
}

func violationCodes(violations []Violation) []string {
	codes := make([]string, len(violations))
	for i, v := range violations {
		codes[i] = v.Code
	}
	return codes
}

func TestValidate_CleanWorksheetPlan(t *testing.T) {
	reqs := Requirements{MinQuestions: 5, MaxQuestions: 5, RequireAnswers: true}

	violations := Validate(questionPlan(5, true), reqs)

	assert.Empty(t, violations)
}

func TestValidate_QuestionCountBounds(t *testing.T) {
	reqs := Requirements{MinQuestions: 5, MaxQuestions: 5}

	low := Validate(questionPlan(3, false), reqs)
	assert.Contains(t, violationCodes(low), "question_count_low")

	high := Validate(questionPlan(8, false), reqs)
	assert.Contains(t, violationCodes(high), "question_count_high")
}

func TestValidate_MissingAnswers(t *testing.T) {
	plan := questionPlan(4, true)
	plan.Sections[0].Items[2].Answer = ""

	violations := Validate(plan, Requirements{RequireAnswers: true})

	require.Len(t, violations, 1)
	assert.Equal(t, "answers_missing", violations[0].Code)
	assert.Contains(t, violations[0].Message, "1 questions")
}

func TestValidate_LessonRubric(t *testing.T) {
	plan := &types.ContentPlan{
		Title: "Water Cycle",
		Sections: []types.PlanSection{
			{Kind: types.SectionWarmUp, Title: "Warm-Up"},
			{Kind: types.SectionClosing, Title: "Closing"},
		},
	}
	reqs := Requirements{
		MinSections:      4,
		RequireObjective: true,
		RequireMaterials: true,
		RequireScript:    true,
	}

	codes := violationCodes(Validate(plan, reqs))

	assert.Contains(t, codes, "section_count_low")
	assert.Contains(t, codes, "objective_missing")
	assert.Contains(t, codes, "materials_missing")
	assert.Contains(t, codes, "teacher_script_missing")
}

func TestWorksheetRequirements_PinsExactQuestionCount(t *testing.T) {
	req := &types.GenerationRequest{QuestionCount: 12, IncludeAnswerKey: true}

	reqs := WorksheetRequirements(req)

	assert.Equal(t, 12, reqs.MinQuestions)
	assert.Equal(t, 12, reqs.MaxQuestions)
	assert.True(t, reqs.RequireAnswers)
	assert.Zero(t, reqs.MinSections, "worksheet rubric has no lesson checks")
}

func TestLessonRequirements_ScriptFollowsConfidence(t *testing.T) {
	novice := &types.GenerationRequest{Pedagogy: &types.PedagogyFlags{Confidence: types.ConfidenceNovice}}
	assert.True(t, LessonRequirements(novice).RequireScript)

	experienced := &types.GenerationRequest{}
	assert.False(t, LessonRequirements(experienced).RequireScript)
	assert.Equal(t, 4, LessonRequirements(experienced).MinSections)
}
