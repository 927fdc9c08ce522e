package quality

import "github.com/theronnieguidry/teachers-assistant/internal/types"

// maxTeacherIssues bounds how many findings a teacher sees.
const maxTeacherIssues = 3

// Teacher-facing categories. This small fixed taxonomy is the only category
// vocabulary that leaves the package.
const (
	TeacherCategoryQuestions  = "Question coverage"
	TeacherCategoryAnswerKey  = "Answer key"
	TeacherCategoryVisuals    = "Visuals"
	TeacherCategoryFormatting = "Formatting"
	TeacherCategoryLesson     = "Lesson structure"
)

var teacherCategories = map[string]string{
	categoryQuestionCoverage: TeacherCategoryQuestions,
	categoryAnswerKey:        TeacherCategoryAnswerKey,
	categoryVisuals:          TeacherCategoryVisuals,
	categoryStructure:        TeacherCategoryFormatting,
	categoryFormatting:       TeacherCategoryFormatting,
	categoryLessonStructure:  TeacherCategoryLesson,
	categoryObjective:        TeacherCategoryLesson,
	categoryMaterials:        TeacherCategoryLesson,
	categoryTeacherScript:    TeacherCategoryLesson,
}

// BuildTeacherReport translates the internal report into the teacher-safe
// form: fixed categories, errors before warnings, truncated to the top few
// issues.
func BuildTeacherReport(report *types.QualityReport) *types.TeacherReport {
	teacherReport := &types.TeacherReport{
		Score:   report.Score,
		Summary: "The generated pack did not meet our quality bar, so you were not charged.",
	}

	collect := func(severity types.IssueSeverity) {
		for _, issue := range report.Issues {
			if issue.Severity != severity || len(teacherReport.Issues) >= maxTeacherIssues {
				continue
			}
			category, ok := teacherCategories[issue.Category]
			if !ok {
				category = TeacherCategoryFormatting
			}
			teacherReport.Issues = append(teacherReport.Issues, types.TeacherIssue{
				Category: category,
				Message:  issue.Message,
			})
		}
	}
	collect(types.SeverityError)
	collect(types.SeverityWarning)

	return teacherReport
}
