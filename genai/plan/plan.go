package plan

import (
	"fmt"

	"github.com/groundedquery/core/genai/schema"
)

// Plan is the planner's structured output: an ordered sequence of tool
// actions that, taken together, are expected to answer the user's message.
type Plan struct {
	Intent                string       `yaml:"intent,omitempty" json:"intent" validate:"required"`
	Actions               []*Action    `yaml:"actions,omitempty" json:"actions" validate:"dive"`
	Constraints           *Constraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	NeedsClarification    bool         `yaml:"needsClarification,omitempty" json:"needsClarification"`
	ClarificationQuestion string       `yaml:"clarificationQuestion,omitempty" json:"clarificationQuestion,omitempty"`
}

// Constraints narrows how a Plan's actions may be executed.
type Constraints struct {
	MaxRows       int      `yaml:"maxRows,omitempty" json:"maxRows,omitempty" validate:"gte=0"`
	SourceIds     []string `yaml:"sourceIds,omitempty" json:"sourceIds,omitempty"`
	AllowedTables []string `yaml:"allowedTables,omitempty" json:"allowedTables,omitempty"`
}

// Validate enforces struct-tag shape plus the Plan invariant: either the
// planner asks for clarification with no actions, or it commits to at
// least one action.
func (p *Plan) Validate() error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	if p.NeedsClarification {
		if p.ClarificationQuestion == "" {
			return fmt.Errorf("clarificationQuestion is required when needsClarification is true")
		}
		return nil
	}
	if len(p.Actions) == 0 {
		return fmt.Errorf("actions must be non-empty unless needsClarification is true")
	}
	if issues := schema.Check(p); len(issues) > 0 {
		return fmt.Errorf("plan shape: %v", issues)
	}
	return nil
}

// ValidatePlan decodes raw JSON into a Plan and validates it in one step,
// the single operation the Planner (C5) routes every LLM output through.
func ValidatePlan(raw []byte) (*Plan, error) {
	var p Plan
	issues, err := schema.Decode(raw, &p)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("plan shape: %v", issues)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
