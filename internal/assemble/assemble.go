// Package assemble renders a validated content plan (plus any images) into
// final document markup. It is a deterministic function of its inputs: no
// I/O, no AI calls, which makes it the natural seam for unit testing document
// structure independent of AI variance.
package assemble

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Flags select which documents to produce.
type Flags struct {
	Worksheet       bool
	AnswerKey       bool
	LessonPlan      bool
	TeacherScript   bool
	StudentActivity bool
	Materials       bool
}

// FlagsFor derives the document selection from the original request.
func FlagsFor(req *types.GenerationRequest) Flags {
	wantLesson := req.Format == types.FormatLessonPlan || req.Format == types.FormatCombined
	wantWorksheet := req.Format == types.FormatWorksheet || req.Format == types.FormatCombined
	return Flags{
		Worksheet:       wantWorksheet,
		AnswerKey:       req.IncludeAnswerKey && wantWorksheet,
		LessonPlan:      wantLesson,
		TeacherScript:   wantLesson && req.ConfidenceOrDefault() == types.ConfidenceNovice,
		StudentActivity: wantLesson,
		Materials:       wantLesson,
	}
}

// Assemble renders the plan into the documents the flags select.
func Assemble(plan *types.ContentPlan, imageResults []types.ImageResult, flags Flags) types.Documents {
	var docs types.Documents

	imagesByAnchor := groupImages(plan, imageResults)

	if flags.Worksheet {
		docs.WorksheetHTML = renderWorksheet(plan, imagesByAnchor)
	}
	if flags.AnswerKey {
		docs.AnswerKeyHTML = renderAnswerKey(plan)
	}
	if flags.LessonPlan {
		docs.LessonPlanHTML = renderLessonPlan(plan)
	}
	if flags.TeacherScript {
		docs.TeacherScriptHTML = renderTeacherScript(plan)
	}
	if flags.StudentActivity {
		docs.StudentActivityHTML = renderStudentActivity(plan)
	}
	if flags.Materials {
		docs.MaterialsHTML = renderMaterials(plan)
	}

	return docs
}

// groupImages assigns each successful image to the index of the section its
// placement anchors to; unmatched anchors fall back to the first section.
func groupImages(plan *types.ContentPlan, imageResults []types.ImageResult) map[int][]types.ImageResult {
	grouped := make(map[int][]types.ImageResult)
	for _, result := range imageResults {
		if !result.OK || len(result.Content) == 0 {
			continue
		}
		idx := 0
		for si, section := range plan.Sections {
			if strings.EqualFold(section.Title, result.Placement.Anchor) {
				idx = si
				break
			}
		}
		grouped[idx] = append(grouped[idx], result)
	}
	return grouped
}

func renderWorksheet(plan *types.ContentPlan, imagesByAnchor map[int][]types.ImageResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(plan.Title)))
	sb.WriteString(fmt.Sprintf("<p class=\"meta\">%s &middot; %s</p>\n",
		html.EscapeString(plan.Grade), html.EscapeString(plan.Subject)))
	if plan.Objective != "" {
		sb.WriteString(fmt.Sprintf("<p class=\"objective\">%s</p>\n", html.EscapeString(plan.Objective)))
	}

	for si, section := range plan.Sections {
		if section.Title != "" && len(plan.Sections) > 1 {
			sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(section.Title)))
		}
		for _, img := range imagesByAnchor[si] {
			sb.WriteString(renderFigure(img))
		}
		if section.Body != "" {
			sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(section.Body)))
		}
		if len(section.Items) > 0 {
			sb.WriteString("<ol class=\"questions\">\n")
			for _, item := range section.Items {
				sb.WriteString(fmt.Sprintf("<li value=\"%d\">%s</li>\n", item.Number, html.EscapeString(item.Prompt)))
			}
			sb.WriteString("</ol>\n")
		}
	}

	return sb.String()
}

func renderFigure(img types.ImageResult) string {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	encoded := base64.StdEncoding.EncodeToString(img.Content)
	return fmt.Sprintf("<figure><img src=\"data:%s;base64,%s\" alt=\"%s\"></figure>\n",
		mimeType, encoded, html.EscapeString(img.Placement.Description))
}

func renderAnswerKey(plan *types.ContentPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Answer Key: %s</h1>\n", html.EscapeString(plan.Title)))
	sb.WriteString("<ol class=\"answers\">\n")
	for _, section := range plan.Sections {
		for _, item := range section.Items {
			answer := item.Answer
			if answer == "" {
				answer = "(no answer provided)"
			}
			sb.WriteString(fmt.Sprintf("<li value=\"%d\">%s</li>\n", item.Number, html.EscapeString(answer)))
		}
	}
	sb.WriteString("</ol>\n")
	return sb.String()
}

func renderLessonPlan(plan *types.ContentPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(plan.Title)))
	sb.WriteString(fmt.Sprintf("<p class=\"meta\">%s &middot; %s</p>\n",
		html.EscapeString(plan.Grade), html.EscapeString(plan.Subject)))
	if plan.Objective != "" {
		sb.WriteString(fmt.Sprintf("<p class=\"objective\"><strong>Objective:</strong> %s</p>\n",
			html.EscapeString(plan.Objective)))
	}

	for _, section := range plan.Sections {
		title := section.Title
		if section.DurationMinutes > 0 {
			title = fmt.Sprintf("%s (%d min)", title, section.DurationMinutes)
		}
		sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(title)))
		if section.Body != "" {
			sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(section.Body)))
		}
	}

	return sb.String()
}

func renderTeacherScript(plan *types.ContentPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Teacher Script: %s</h1>\n", html.EscapeString(plan.Title)))
	for _, section := range plan.Sections {
		if section.TeacherScript == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(section.Title)))
		sb.WriteString(fmt.Sprintf("<blockquote>%s</blockquote>\n", html.EscapeString(section.TeacherScript)))
	}
	return sb.String()
}

func renderStudentActivity(plan *types.ContentPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Student Activity: %s</h1>\n", html.EscapeString(plan.Title)))
	for _, section := range plan.Sections {
		if section.Kind != types.SectionPractice {
			continue
		}
		sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(section.Title)))
		if section.Body != "" {
			sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(section.Body)))
		}
		if len(section.Items) > 0 {
			sb.WriteString("<ol>\n")
			for _, item := range section.Items {
				sb.WriteString(fmt.Sprintf("<li value=\"%d\">%s</li>\n", item.Number, html.EscapeString(item.Prompt)))
			}
			sb.WriteString("</ol>\n")
		}
	}
	return sb.String()
}

func renderMaterials(plan *types.ContentPlan) string {
	var sb strings.Builder
	sb.WriteString("<h1>Materials</h1>\n<ul>\n")
	for _, material := range plan.Materials {
		sb.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(material)))
	}
	sb.WriteString("</ul>\n")
	return sb.String()
}
