package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

func TestBuildTeacherReport_TranslatesCategories(t *testing.T) {
	report := &types.QualityReport{
		Score: 55,
		Issues: []types.QualityIssue{
			{Category: categoryQuestionCoverage, Message: "only 5 of 10 questions", Severity: types.SeverityError},
			{Category: categoryStructure, Message: "no title heading", Severity: types.SeverityWarning},
		},
	}

	teacherReport := BuildTeacherReport(report)

	assert.Equal(t, 55, teacherReport.Score)
	assert.NotEmpty(t, teacherReport.Summary)
	require.Len(t, teacherReport.Issues, 2)
	assert.Equal(t, TeacherCategoryQuestions, teacherReport.Issues[0].Category)
	assert.Equal(t, TeacherCategoryFormatting, teacherReport.Issues[1].Category)
}

func TestBuildTeacherReport_ErrorsComeFirstAndTopThreeOnly(t *testing.T) {
	report := &types.QualityReport{
		Score: 10,
		Issues: []types.QualityIssue{
			{Category: categoryVisuals, Message: "w1", Severity: types.SeverityWarning},
			{Category: categoryQuestionCoverage, Message: "e1", Severity: types.SeverityError},
			{Category: categoryAnswerKey, Message: "e2", Severity: types.SeverityError},
			{Category: categoryStructure, Message: "e3", Severity: types.SeverityError},
			{Category: categoryFormatting, Message: "e4", Severity: types.SeverityError},
		},
	}

	teacherReport := BuildTeacherReport(report)

	require.Len(t, teacherReport.Issues, 3)
	assert.Equal(t, "e1", teacherReport.Issues[0].Message)
	assert.Equal(t, "e2", teacherReport.Issues[1].Message)
	assert.Equal(t, "e3", teacherReport.Issues[2].Message)
}

func TestBuildTeacherReport_UnknownCategoryFallsBackToFormatting(t *testing.T) {
	report := &types.QualityReport{
		Issues: []types.QualityIssue{
			{Category: "some_new_internal_category", Message: "oops", Severity: types.SeverityError},
		},
	}

	teacherReport := BuildTeacherReport(report)

	require.Len(t, teacherReport.Issues, 1)
	assert.Equal(t, TeacherCategoryFormatting, teacherReport.Issues[0].Category)
}

func TestRejectionError_MentionsNoCharge(t *testing.T) {
	err := &RejectionError{Report: &types.TeacherReport{Score: 42}}

	assert.Contains(t, err.Error(), "score 42")
	assert.Contains(t, err.Error(), "not charged")
}
