package planner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/prompts"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// lessonProgression is the required section order for a lesson plan.
var lessonProgression = []types.SectionKind{
	types.SectionWarmUp,
	types.SectionInstruction,
	types.SectionPractice,
	types.SectionClosing,
}

// minuteShares allocates lesson time across the progression: a short warm-up
// and closing around a long instruction and practice block.
var minuteShares = []float64{0.15, 0.35, 0.35, 0.15}

// BuildLessonStructure issues one text-completion call to build a lesson plan
// sized by the requested lesson length and tailored by teacher-confidence and
// student-profile flags. Same fallback contract as BuildPlan.
func BuildLessonStructure(ctx context.Context, client llm.Client, req *types.GenerationRequest) *Result {
	prompt := buildLessonPrompt(req)

	completion, err := client.CompleteJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		fmt.Printf("Warning: lesson structure call failed, using fallback lesson: %v\n", err)
		return &Result{Plan: FallbackLesson(req), UsedFallback: true}
	}

	plan, err := parsePlanJSON([]byte(completion.Content), req)
	if err != nil {
		fmt.Printf("Warning: lesson response malformed, using fallback lesson: %v\n", err)
		return &Result{Plan: FallbackLesson(req), Usage: completion.Usage, UsedFallback: true}
	}

	return &Result{Plan: plan, Usage: completion.Usage}
}

func buildLessonPrompt(req *types.GenerationRequest) string {
	profilesBlock := ""
	if req.Pedagogy != nil && len(req.Pedagogy.StudentProfiles) > 0 {
		profilesBlock = "Tailor activities for these student profiles: " +
			strings.Join(req.Pedagogy.StudentProfiles, ", ") + ".\n"
	}

	scriptBlock := ""
	if req.ConfidenceOrDefault() == types.ConfidenceNovice {
		scriptBlock = "The teacher is new to this material: every section must include a word-for-word teacher_script.\n"
	}

	template := prompts.MustGet("planner.json", "lesson_plan")
	return prompts.Format(template, map[string]string{
		"Grade":    req.Grade,
		"Subject":  req.Subject,
		"Prompt":   req.Prompt,
		"Minutes":  strconv.Itoa(req.LessonMinutesOrDefault()),
		"Profiles": profilesBlock,
		"Script":   scriptBlock,
	})
}

// FallbackLesson derives a content-free lesson skeleton with the full
// warm-up/instruction/practice/closing progression and the requested minutes
// allocated across it.
func FallbackLesson(req *types.GenerationRequest) *types.ContentPlan {
	minutes := req.LessonMinutesOrDefault()
	needScript := req.ConfidenceOrDefault() == types.ConfidenceNovice

	sections := make([]types.PlanSection, len(lessonProgression))
	allocated := 0
	for i, kind := range lessonProgression {
		share := int(float64(minutes) * minuteShares[i])
		if i == len(lessonProgression)-1 {
			share = minutes - allocated // remainder keeps the total exact
		}
		allocated += share

		sections[i] = types.PlanSection{
			Kind:            kind,
			Title:           lessonSectionTitle(kind),
			Body:            fmt.Sprintf("%s activity for %s %s.", lessonSectionTitle(kind), req.Grade, req.Subject),
			DurationMinutes: share,
		}
		if needScript {
			sections[i].TeacherScript = fmt.Sprintf("Walk the class through the %s step by step.", strings.ToLower(lessonSectionTitle(kind)))
		}
	}

	return &types.ContentPlan{
		Title:     fmt.Sprintf("%s Lesson: %s", req.Subject, truncate(req.Prompt, 60)),
		Objective: fmt.Sprintf("Students will practice %s skills for %s.", req.Subject, req.Grade),
		Grade:     req.Grade,
		Subject:   req.Subject,
		Materials: []string{"Whiteboard", "Student handouts"},
		Sections:  sections,
	}
}

func lessonSectionTitle(kind types.SectionKind) string {
	switch kind {
	case types.SectionWarmUp:
		return "Warm-Up"
	case types.SectionInstruction:
		return "Instruction"
	case types.SectionPractice:
		return "Practice"
	case types.SectionClosing:
		return "Closing"
	default:
		return "Section"
	}
}
