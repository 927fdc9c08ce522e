package types

// TokenUsage accumulates token counts across capability calls.
type TokenUsage struct {
	Input  int `json:"input_tokens"`
	Output int `json:"output_tokens"`
}

// Add folds another usage sample into the accumulator.
func (u *TokenUsage) Add(other TokenUsage) {
	u.Input += other.Input
	u.Output += other.Output
}

// Documents holds the rendered output markup. Fields are empty when the
// corresponding document was not requested.
type Documents struct {
	WorksheetHTML       string `json:"worksheet_html,omitempty"`
	AnswerKeyHTML       string `json:"answer_key_html,omitempty"`
	LessonPlanHTML      string `json:"lesson_plan_html,omitempty"`
	TeacherScriptHTML   string `json:"teacher_script_html,omitempty"`
	StudentActivityHTML string `json:"student_activity_html,omitempty"`
	MaterialsHTML       string `json:"materials_html,omitempty"`
}

// WorksheetExtras carries the premium-worksheet-specific result fields.
type WorksheetExtras struct {
	ImageStats   ImageStats  `json:"image_stats"`
	FilterStats  FilterStats `json:"filter_stats"`
	QualityScore int         `json:"quality_score"`
	WasRepaired  bool        `json:"was_repaired"`
	UsedFallback bool        `json:"used_fallback"`
}

// LessonExtras carries the premium-lesson-plan-specific result fields.
type LessonExtras struct {
	SectionCount    int  `json:"section_count"`
	DurationMinutes int  `json:"duration_minutes"`
	QualityScore    int  `json:"quality_score"`
	HasWorksheet    bool `json:"has_worksheet"` // nested worksheet sub-pipeline succeeded
}

// GenerationResult is the tagged union returned by a successful run: common
// fields for every pipeline plus one non-nil extras variant matching Kind.
type GenerationResult struct {
	Kind           PipelineKind     `json:"kind"`
	Documents      Documents        `json:"documents"`
	CreditsCharged int              `json:"credits_charged"`
	Tokens         TokenUsage       `json:"tokens"`
	VersionNumber  int              `json:"version_number"`
	Worksheet      *WorksheetExtras `json:"worksheet,omitempty"`
	Lesson         *LessonExtras    `json:"lesson,omitempty"`
}
