package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

func samplePlan() *types.ContentPlan {
	return &types.ContentPlan{
		Title:     "Pizza Fractions",
		Objective: "Identify fractions from pictures.",
		Grade:     "3rd grade",
		Subject:   "math",
		Materials: []string{"Fraction tiles", "Worksheets"},
		Sections: []types.PlanSection{
			{
				Kind:  types.SectionQuestions,
				Title: "Questions",
				Items: []types.WorksheetItem{
					{Number: 1, Prompt: "What fraction is shaded?", Answer: "1/2"},
					{Number: 2, Prompt: "Which is larger, a quarter or a half?", Answer: "a half"},
				},
			},
		},
	}
}

func lessonPlan() *types.ContentPlan {
	return &types.ContentPlan{
		Title:     "Water Cycle",
		Objective: "Describe evaporation and condensation.",
		Grade:     "4th grade",
		Subject:   "science",
		Materials: []string{"Beaker", "Hot plate"},
		Sections: []types.PlanSection{
			{Kind: types.SectionWarmUp, Title: "Warm-Up", Body: "Discuss rain.", DurationMinutes: 7, TeacherScript: "Ask the class where rain comes from."},
			{Kind: types.SectionInstruction, Title: "Instruction", Body: "Explain the cycle.", DurationMinutes: 16, TeacherScript: "Walk through the diagram."},
			{Kind: types.SectionPractice, Title: "Practice", Body: "Label the diagram.", DurationMinutes: 15, Items: []types.WorksheetItem{{Number: 1, Prompt: "Label evaporation."}}},
			{Kind: types.SectionClosing, Title: "Closing", Body: "Exit ticket.", DurationMinutes: 7},
		},
	}
}

func TestFlagsFor_WorksheetFormat(t *testing.T) {
	req := &types.GenerationRequest{Format: types.FormatWorksheet, IncludeAnswerKey: true}

	flags := FlagsFor(req)

	assert.True(t, flags.Worksheet)
	assert.True(t, flags.AnswerKey)
	assert.False(t, flags.LessonPlan)
	assert.False(t, flags.TeacherScript)
}

func TestFlagsFor_AnswerKeyNeedsWorksheet(t *testing.T) {
	req := &types.GenerationRequest{Format: types.FormatLessonPlan, IncludeAnswerKey: true}

	flags := FlagsFor(req)

	assert.False(t, flags.Worksheet)
	assert.False(t, flags.AnswerKey, "an answer key without a worksheet makes no sense")
	assert.True(t, flags.LessonPlan)
	assert.True(t, flags.StudentActivity)
	assert.True(t, flags.Materials)
}

func TestFlagsFor_NoviceLessonGetsScript(t *testing.T) {
	req := &types.GenerationRequest{
		Format:   types.FormatCombined,
		Pedagogy: &types.PedagogyFlags{Confidence: types.ConfidenceNovice},
	}

	flags := FlagsFor(req)

	assert.True(t, flags.Worksheet)
	assert.True(t, flags.LessonPlan)
	assert.True(t, flags.TeacherScript)
}

func TestAssemble_WorksheetStructure(t *testing.T) {
	docs := Assemble(samplePlan(), nil, Flags{Worksheet: true, AnswerKey: true})

	assert.Contains(t, docs.WorksheetHTML, "<h1>Pizza Fractions</h1>")
	assert.Contains(t, docs.WorksheetHTML, `<ol class="questions">`)
	assert.Contains(t, docs.WorksheetHTML, `<li value="1">What fraction is shaded?</li>`)
	assert.NotContains(t, docs.WorksheetHTML, "1/2", "answers never leak into the worksheet")

	assert.Contains(t, docs.AnswerKeyHTML, "<h1>Answer Key: Pizza Fractions</h1>")
	assert.Contains(t, docs.AnswerKeyHTML, `<li value="1">1/2</li>`)

	assert.Empty(t, docs.LessonPlanHTML)
}

func TestAssemble_EscapesContent(t *testing.T) {
	plan := samplePlan()
	plan.Sections[0].Items[0].Prompt = `Is 3 < 5 && "x" > y?`

	docs := Assemble(plan, nil, Flags{Worksheet: true})

	assert.NotContains(t, docs.WorksheetHTML, `3 < 5 && "x"`)
	assert.Contains(t, docs.WorksheetHTML, "3 &lt; 5")
}

func TestAssemble_ImagesAnchorToSections(t *testing.T) {
	images := []types.ImageResult{
		{
			Placement: types.VisualPlacement{Anchor: "Questions", Description: "a pizza cut into halves"},
			Content:   []byte("png"),
			MIMEType:  "image/png",
			OK:        true,
		},
		{
			Placement: types.VisualPlacement{Anchor: "No Such Section", Description: "orphan"},
			Content:   []byte("png"),
			OK:        true,
		},
		{
			Placement: types.VisualPlacement{Anchor: "Questions", Description: "failed"},
			OK:        false,
		},
	}

	docs := Assemble(samplePlan(), images, Flags{Worksheet: true})

	assert.Contains(t, docs.WorksheetHTML, `alt="a pizza cut into halves"`)
	assert.Contains(t, docs.WorksheetHTML, "data:image/png;base64,")
	assert.Contains(t, docs.WorksheetHTML, `alt="orphan"`, "unmatched anchors fall back to the first section")
	assert.NotContains(t, docs.WorksheetHTML, `alt="failed"`, "failed results are never rendered")
	assert.Equal(t, 2, strings.Count(docs.WorksheetHTML, "<figure>"))
}

func TestAssemble_LessonDocuments(t *testing.T) {
	docs := Assemble(lessonPlan(), nil, Flags{
		LessonPlan:      true,
		TeacherScript:   true,
		StudentActivity: true,
		Materials:       true,
	})

	assert.Contains(t, docs.LessonPlanHTML, "<h1>Water Cycle</h1>")
	assert.Contains(t, docs.LessonPlanHTML, "<h2>Warm-Up (7 min)</h2>")
	assert.Contains(t, docs.LessonPlanHTML, "<strong>Objective:</strong>")

	assert.Contains(t, docs.TeacherScriptHTML, "<blockquote>Ask the class where rain comes from.</blockquote>")
	require.NotContains(t, docs.TeacherScriptHTML, "Closing", "unscripted sections are skipped")

	assert.Contains(t, docs.StudentActivityHTML, "<h2>Practice</h2>")
	assert.NotContains(t, docs.StudentActivityHTML, "Warm-Up", "student activity only covers practice sections")

	assert.Contains(t, docs.MaterialsHTML, "<li>Beaker</li>")

	assert.Empty(t, docs.WorksheetHTML)
	assert.Empty(t, docs.AnswerKeyHTML)
}

func TestAssemble_MissingAnswerPlaceholder(t *testing.T) {
	plan := samplePlan()
	plan.Sections[0].Items[1].Answer = ""

	docs := Assemble(plan, nil, Flags{AnswerKey: true})

	assert.Contains(t, docs.AnswerKeyHTML, "(no answer provided)")
}
