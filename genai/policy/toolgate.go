package policy

import (
	"fmt"

	"github.com/groundedquery/core/genai/plan"
)

// ToolGate rejects a whole plan before any per-action policy runs: either
// it has too many actions, or one of its tools is outside the allowlist.
type ToolGate struct {
	AllowList           []string
	MaxToolCallsPerPlan int
}

// IsAllowed reports whether name is permitted by the allowlist. An empty
// allowlist means permissive.
func (g *ToolGate) IsAllowed(name string) bool {
	if g == nil || len(g.AllowList) == 0 {
		return true
	}
	for _, a := range g.AllowList {
		if a == name {
			return true
		}
	}
	return false
}

// Check runs the whole-plan gate. A non-nil error means the entire plan is
// blocked and the Coordinator must stop before dispatching anything.
func (g *ToolGate) Check(p *plan.Plan) error {
	if g == nil || p == nil {
		return nil
	}
	max := g.MaxToolCallsPerPlan
	if max <= 0 {
		max = 10
	}
	if len(p.Actions) > max {
		return fmt.Errorf("plan has %d actions, exceeding the cap of %d", len(p.Actions), max)
	}
	for _, a := range p.Actions {
		if !g.IsAllowed(a.Tool) {
			return fmt.Errorf("tool %q is not in the allowlist", a.Tool)
		}
	}
	return nil
}
