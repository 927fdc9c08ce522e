package planner

import (
	"encoding/json"
	"fmt"

	"github.com/theronnieguidry/teachers-assistant/internal/schemas"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// parsePlanJSON validates a raw model response against the plan schema,
// unmarshals it, and normalizes the result.
func parsePlanJSON(data []byte, req *types.GenerationRequest) (*types.ContentPlan, error) {
	if err := schemas.ValidatePlanJSON(data); err != nil {
		return nil, err
	}

	var plan types.ContentPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}

	style := ""
	if req.Visuals != nil {
		style = req.Visuals.Style
	}
	NormalizePlan(&plan, req.Grade, req.Subject, style)
	return &plan, nil
}

// NormalizePlan fills request-derived metadata the model tends to omit and
// repairs mechanical defects: item numbering, visual placement IDs, and
// priority clamping. Every plan that came out of a model call goes through
// it, whether from the first planning pass or from a repair pass.
func NormalizePlan(plan *types.ContentPlan, grade, subject, visualStyle string) {
	if plan.Grade == "" {
		plan.Grade = grade
	}
	if plan.Subject == "" {
		plan.Subject = subject
	}

	number := 0
	for si := range plan.Sections {
		for ii := range plan.Sections[si].Items {
			number++
			plan.Sections[si].Items[ii].Number = number
		}
	}
	for i := range plan.Visuals {
		v := &plan.Visuals[i]
		if v.ID == "" {
			v.ID = fmt.Sprintf("visual-%d", i+1)
		}
		if v.Style == "" {
			v.Style = visualStyle
		}
		if v.Priority < 0 {
			v.Priority = 0
		}
		if v.Priority > 1 {
			v.Priority = 1
		}
	}
}
