package planner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// fakeClient returns a canned completion or error for every call and records
// the last prompt it was given.
type fakeClient struct {
	content string
	err     error
	usage   types.TokenUsage
	prompt  string
}

func (c *fakeClient) Complete(_ context.Context, prompt string, _ llm.ModelTier) (*llm.Completion, error) {
	c.prompt = prompt
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Completion{Content: c.content, Usage: c.usage}, nil
}

func (c *fakeClient) CompleteJSON(ctx context.Context, prompt string, tier llm.ModelTier) (*llm.Completion, error) {
	return c.Complete(ctx, prompt, tier)
}

func (c *fakeClient) CompleteImage(_ context.Context, _ llm.ImageRequest) ([]byte, error) {
	return nil, &llm.ProviderError{Message: "images not supported"}
}

func (c *fakeClient) CostCredits(usage types.TokenUsage) int {
	return (usage.Input + usage.Output) / 1000
}
func (c *fakeClient) RequiresPayment() bool              { return false }
func (c *fakeClient) SupportsImages() bool               { return false }
func (c *fakeClient) IsAvailable(_ context.Context) bool { return true }
func (c *fakeClient) Close() error                       { return nil }

func testRequest(questionCount int) *types.GenerationRequest {
	return &types.GenerationRequest{
		ProjectID:     uuid.New(),
		Prompt:        "Fractions with pizza slices",
		Grade:         "3rd grade",
		Subject:       "math",
		QuestionCount: questionCount,
		Format:        types.FormatWorksheet,
		Mode:          types.PipelineWorksheet,
	}
}

func validPlanJSON(t *testing.T) string {
	t.Helper()
	plan := types.ContentPlan{
		Title:     "Pizza Fractions",
		Objective: "Identify fractions from pictures.",
		Sections: []types.PlanSection{
			{
				Kind:  types.SectionQuestions,
				Title: "Questions",
				Items: []types.WorksheetItem{
					{Number: 7, Prompt: "What fraction is shaded?", Answer: "1/2"},
					{Number: 9, Prompt: "Half of 8?", Answer: "4"},
				},
			},
		},
		Visuals: []types.VisualPlacement{
			{Anchor: "Questions", Description: "a pizza cut into four slices", Priority: 0.9},
		},
	}
	data, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(data)
}

func TestBuildPlan_ParsesAndNormalizes(t *testing.T) {
	client := &fakeClient{content: validPlanJSON(t), usage: types.TokenUsage{Input: 500, Output: 300}}
	req := testRequest(2)

	result := BuildPlan(context.Background(), client, req, "", 4)

	require.False(t, result.UsedFallback)
	assert.Equal(t, types.TokenUsage{Input: 500, Output: 300}, result.Usage)

	plan := result.Plan
	assert.Equal(t, "3rd grade", plan.Grade, "grade is filled from the request")
	assert.Equal(t, "math", plan.Subject)

	// Items are renumbered sequentially regardless of what the model emitted.
	items := plan.Sections[0].Items
	assert.Equal(t, 1, items[0].Number)
	assert.Equal(t, 2, items[1].Number)

	// Visuals get IDs assigned.
	require.Len(t, plan.Visuals, 1)
	assert.Equal(t, "visual-1", plan.Visuals[0].ID)
}

func TestNormalizePlan_ClampsPriorityAndAppliesStyle(t *testing.T) {
	plan := &types.ContentPlan{
		Visuals: []types.VisualPlacement{
			{Description: "too eager", Priority: 1.7},
			{Description: "negative", Priority: -0.3, Style: "watercolor"},
		},
	}

	NormalizePlan(plan, "3rd grade", "math", "line art")

	assert.Equal(t, 1.0, plan.Visuals[0].Priority)
	assert.Equal(t, "line art", plan.Visuals[0].Style, "request style fills empty placement styles")
	assert.Equal(t, 0.0, plan.Visuals[1].Priority)
	assert.Equal(t, "watercolor", plan.Visuals[1].Style, "explicit placement styles are kept")
}

func TestBuildPlan_VisualsInstructionFollowsCap(t *testing.T) {
	client := &fakeClient{content: validPlanJSON(t)}
	req := testRequest(2)

	BuildPlan(context.Background(), client, req, "", 4)
	assert.Contains(t, client.prompt, "up to 4 visual placements")

	BuildPlan(context.Background(), client, req, "", 0)
	assert.NotContains(t, client.prompt, "up to 0")
	assert.Contains(t, client.prompt, `empty "visuals" array`)
}

func TestBuildPlan_ProviderErrorFallsBack(t *testing.T) {
	client := &fakeClient{err: &llm.ProviderError{Message: "timeout"}}
	req := testRequest(10)

	result := BuildPlan(context.Background(), client, req, "", 4)

	require.True(t, result.UsedFallback)
	assert.Equal(t, types.TokenUsage{}, result.Usage, "a failed call consumes no billable tokens")
	assert.Equal(t, 10, result.Plan.CountQuestions(), "fallback honors the requested question count")
}

func TestBuildPlan_MalformedResponseFallsBack(t *testing.T) {
	client := &fakeClient{content: `{"title": 42}`, usage: types.TokenUsage{Input: 100, Output: 20}}
	req := testRequest(5)

	result := BuildPlan(context.Background(), client, req, "", 4)

	require.True(t, result.UsedFallback)
	assert.Equal(t, 5, result.Plan.CountQuestions())
	assert.Equal(t, types.TokenUsage{Input: 100, Output: 20}, result.Usage,
		"tokens were consumed even though the response was unusable")
}

func TestFallbackPlan_Shape(t *testing.T) {
	req := testRequest(3)

	plan := FallbackPlan(req)

	assert.Equal(t, 3, plan.CountQuestions())
	assert.False(t, plan.HasAnswers(), "fallback plans carry no answers")
	require.Len(t, plan.Sections, 1)
	assert.Equal(t, types.SectionQuestions, plan.Sections[0].Kind)
	assert.Empty(t, plan.Visuals)
	assert.Equal(t, "Question 1", plan.Sections[0].Items[0].Prompt)
}

func TestFallbackLesson_MinutesSumExactly(t *testing.T) {
	req := testRequest(5)
	req.Pedagogy = &types.PedagogyFlags{LessonMinutes: 50}

	plan := FallbackLesson(req)

	require.Len(t, plan.Sections, 4)
	total := 0
	for _, section := range plan.Sections {
		total += section.DurationMinutes
	}
	assert.Equal(t, 50, total, "rounding losses go to the closing section")
	assert.Equal(t, types.SectionWarmUp, plan.Sections[0].Kind)
	assert.Equal(t, types.SectionClosing, plan.Sections[3].Kind)
	assert.NotEmpty(t, plan.Materials)
}

func TestFallbackLesson_NoviceGetsScripts(t *testing.T) {
	req := testRequest(5)
	req.Pedagogy = &types.PedagogyFlags{Confidence: types.ConfidenceNovice}

	plan := FallbackLesson(req)

	for _, section := range plan.Sections {
		assert.NotEmpty(t, section.TeacherScript, "section %s", section.Title)
	}
}

func TestFallbackLesson_DefaultsToFortyFiveMinutes(t *testing.T) {
	plan := FallbackLesson(testRequest(5))

	total := 0
	for _, section := range plan.Sections {
		total += section.DurationMinutes
		assert.Empty(t, section.TeacherScript, "experienced teachers get no script")
	}
	assert.Equal(t, 45, total)
}
