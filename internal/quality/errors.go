package quality

import (
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// RejectionError indicates the assembled output scored below the pipeline
// threshold. It is always financially refunded in full and always carries the
// teacher-safe report, so callers can render issue-by-issue feedback instead
// of a generic message. The internal score/issue representation never rides
// on this error.
type RejectionError struct {
	Report *types.TeacherReport
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("generation did not meet the quality bar (score %d); you were not charged", e.Report.Score)
}
