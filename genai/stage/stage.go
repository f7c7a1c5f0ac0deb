// Package stage tracks the live execution status of a run for consumers
// that want a point-in-time snapshot rather than the full StreamEvent
// sequence (a UI progress indicator, a health probe). All fields are
// optional except Phase.
package stage

// Stage captures where a run currently stands. Workflow/Task/Tool enrich
// the phase with enough detail to show "running sql.query" instead of just
// "toolsRunning".
type Stage struct {
	Phase    string `json:"phase"`
	Workflow string `json:"workflow,omitempty"`
	Task     string `json:"task,omitempty"`
	Tool     string `json:"tool,omitempty"`
}

const (
	PhasePlanning     = "planning"
	PhasePolicy       = "policy"
	PhaseToolsRunning = "toolsRunning"
	PhaseVerifying    = "verifying"
	PhaseAnswering    = "answering"
	PhaseDone         = "done"
	PhaseError        = "error"
)

// New returns a Stage pinned to workflow at the given phase, with no task
// or tool yet set.
func New(workflow, phase string) *Stage {
	return &Stage{Workflow: workflow, Phase: phase}
}

// WithTool returns a copy of s with Tool set, used while a specific tool
// call is in flight.
func (s *Stage) WithTool(tool string) *Stage {
	if s == nil {
		return &Stage{Tool: tool}
	}
	clone := *s
	clone.Tool = tool
	return &clone
}
