package types

// SectionKind identifies the pedagogical role of a plan section.
type SectionKind string

// Section kinds. Worksheets use a single "questions" section; lesson plans
// use the typed warm-up/instruction/practice/closing progression.
const (
	SectionQuestions   SectionKind = "questions"
	SectionWarmUp      SectionKind = "warm_up"
	SectionInstruction SectionKind = "instruction"
	SectionPractice    SectionKind = "practice"
	SectionClosing     SectionKind = "closing"
)

// WorksheetItem is a single question slot with its expected answer.
type WorksheetItem struct {
	Number int    `json:"number"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer,omitempty"`
}

// PlanSection is one ordered section of a content plan.
type PlanSection struct {
	Kind            SectionKind     `json:"kind"`
	Title           string          `json:"title"`
	Body            string          `json:"body,omitempty"`
	TeacherScript   string          `json:"teacher_script,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	Items           []WorksheetItem `json:"items,omitempty"`
}

// VisualPlacement describes where an illustrative image belongs and why.
type VisualPlacement struct {
	ID          string  `json:"id"`
	Anchor      string  `json:"anchor"` // section title or item reference the image attaches to
	Description string  `json:"description"`
	Priority    float64 `json:"priority"` // 0.0 - 1.0 relevance score from the planner
	Style       string  `json:"style,omitempty"`
}

// ContentPlan is the structured intermediate representation of worksheet or
// lesson content prior to rendering. It is produced by the plan builder,
// mutated in place only by the validator's single repair pass, then frozen.
type ContentPlan struct {
	Title     string            `json:"title"`
	Objective string            `json:"objective"`
	Grade     string            `json:"grade"`
	Subject   string            `json:"subject"`
	Materials []string          `json:"materials,omitempty"`
	Sections  []PlanSection     `json:"sections"`
	Visuals   []VisualPlacement `json:"visuals,omitempty"`
}

// CountQuestions returns the total number of worksheet items across all
// sections. Used for validation bounds and image-quota sizing.
func (p *ContentPlan) CountQuestions() int {
	count := 0
	for _, section := range p.Sections {
		count += len(section.Items)
	}
	return count
}

// HasAnswers reports whether every worksheet item in the plan carries a
// non-empty expected answer. A plan with zero items has no answers.
func (p *ContentPlan) HasAnswers() bool {
	items := 0
	for _, section := range p.Sections {
		for _, item := range section.Items {
			items++
			if item.Answer == "" {
				return false
			}
		}
	}
	return items > 0
}
