package types

// IssueSeverity grades a quality issue.
type IssueSeverity string

// Issue severities
const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// QualityIssue is one rubric finding. Category is an internal rubric name
// and is never surfaced to teachers verbatim; see TeacherReport.
type QualityIssue struct {
	Category string        `json:"category"`
	Message  string        `json:"message"`
	Severity IssueSeverity `json:"severity"`
}

// QualityReport is the internal scoring outcome consumed once by the
// orchestrator to decide charge-or-refund. It is never persisted in binary
// form, only as a summary attached to the output version.
type QualityReport struct {
	Score     int            `json:"score"` // 0-100
	Threshold int            `json:"threshold"`
	Issues    []QualityIssue `json:"issues"`
}

// ShouldCharge reports whether the run is billable.
func (r *QualityReport) ShouldCharge() bool {
	return r.Score >= r.Threshold
}

// TeacherIssue is one teacher-facing finding with a fixed category taxonomy.
type TeacherIssue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// TeacherReport is the teacher-safe view of a quality rejection: a short
// summary plus the top few issues translated into the fixed taxonomy.
type TeacherReport struct {
	Summary string         `json:"summary"`
	Score   int            `json:"score"`
	Issues  []TeacherIssue `json:"issues"`
}
