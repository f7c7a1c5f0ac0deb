package policy

import "github.com/groundedquery/core/genai/plan"

// Decision is the approval verdict for one planned action, plus the
// sanitized arguments actually dispatched when approved.
type Decision struct {
	Action        *plan.Action           `json:"action"`
	Approved      bool                   `json:"approved"`
	SanitizedArgs map[string]interface{} `json:"sanitizedArgs,omitempty"`
	Errors        []string               `json:"errors,omitempty"`
}

// AnyApproved reports whether at least one decision in decisions is approved.
func AnyApproved(decisions []*Decision) bool {
	for _, d := range decisions {
		if d.Approved {
			return true
		}
	}
	return false
}
