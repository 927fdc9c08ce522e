// Package types provides type definitions for structured data used throughout the teacher pack generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PipelineKind selects one of the three end-to-end generation strategies.
type PipelineKind string

// Pipeline kinds
const (
	PipelineStandard   PipelineKind = "standard"
	PipelineWorksheet  PipelineKind = "premium_worksheet"
	PipelineLessonPlan PipelineKind = "premium_lesson_plan"
)

// OutputFormat selects which documents a run produces.
type OutputFormat string

// Output formats
const (
	FormatWorksheet  OutputFormat = "worksheet"
	FormatLessonPlan OutputFormat = "lesson_plan"
	FormatCombined   OutputFormat = "combined" // lesson plan with an aligned worksheet
)

// Difficulty is the requested difficulty level for worksheet items.
type Difficulty string

// Difficulty levels
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// VisualRichness controls how many images a premium run may include.
type VisualRichness string

// Visual richness settings
const (
	RichnessMinimal  VisualRichness = "minimal"
	RichnessStandard VisualRichness = "standard"
	RichnessRich     VisualRichness = "rich"
)

// TeacherConfidence describes how much scaffolding the requesting teacher wants.
type TeacherConfidence string

// Teacher confidence levels
const (
	ConfidenceNovice      TeacherConfidence = "novice"
	ConfidenceExperienced TeacherConfidence = "experienced"
)

// InspirationMaterial is a reference document the teacher wants the content to draw from.
// Either inline text or a URL; URL materials are fetched and reduced to text before planning.
type InspirationMaterial struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Text  string `json:"text,omitempty"`
}

// VisualSettings controls image generation for premium worksheet runs.
type VisualSettings struct {
	Enabled  bool           `json:"enabled"`
	Richness VisualRichness `json:"richness,omitempty"`
	Style    string         `json:"style,omitempty"` // e.g. "line art", "watercolor"
}

// PedagogyFlags carries lesson-plan tailoring options.
type PedagogyFlags struct {
	LessonMinutes   int               `json:"lesson_minutes,omitempty" validate:"omitempty,min=10,max=180"`
	StudentProfiles []string          `json:"student_profiles,omitempty"` // e.g. "ELL", "advanced"
	Confidence      TeacherConfidence `json:"confidence,omitempty"`
}

// GenerationRequest describes one teacher pack to build. It is created by the
// caller and never mutated by the pipeline.
type GenerationRequest struct {
	ProjectID        uuid.UUID             `json:"project_id" validate:"required"`
	Prompt           string                `json:"prompt" validate:"required,min=3"`
	PromptPolished   bool                  `json:"prompt_polished,omitempty"` // caller already polished the prompt
	Grade            string                `json:"grade" validate:"required"`
	Subject          string                `json:"subject" validate:"required"`
	QuestionCount    int                   `json:"question_count" validate:"required,min=1,max=50"`
	Difficulty       Difficulty            `json:"difficulty,omitempty"`
	Format           OutputFormat          `json:"format" validate:"required,oneof=worksheet lesson_plan combined"`
	IncludeAnswerKey bool                  `json:"include_answer_key"`
	Mode             PipelineKind          `json:"mode" validate:"required,oneof=standard premium_worksheet premium_lesson_plan"`
	Inspirations     []InspirationMaterial `json:"inspirations,omitempty"`
	Visuals          *VisualSettings       `json:"visuals,omitempty"`
	Pedagogy         *PedagogyFlags        `json:"pedagogy,omitempty"`
}

// Validate validates the GenerationRequest using the validator.
func (r *GenerationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// WantsVisuals reports whether the request asks for generated images.
func (r *GenerationRequest) WantsVisuals() bool {
	return r.Visuals != nil && r.Visuals.Enabled
}

// RichnessOrDefault returns the requested visual richness, defaulting to standard.
func (r *GenerationRequest) RichnessOrDefault() VisualRichness {
	if r.Visuals == nil || r.Visuals.Richness == "" {
		return RichnessStandard
	}
	return r.Visuals.Richness
}

// ConfidenceOrDefault returns the teacher confidence level, defaulting to experienced.
func (r *GenerationRequest) ConfidenceOrDefault() TeacherConfidence {
	if r.Pedagogy == nil || r.Pedagogy.Confidence == "" {
		return ConfidenceExperienced
	}
	return r.Pedagogy.Confidence
}

// LessonMinutesOrDefault returns the requested lesson length, defaulting to 45 minutes.
func (r *GenerationRequest) LessonMinutesOrDefault() int {
	if r.Pedagogy == nil || r.Pedagogy.LessonMinutes == 0 {
		return 45
	}
	return r.Pedagogy.LessonMinutes
}
