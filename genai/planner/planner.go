// Package planner implements the Planner (C5): it invokes an
// llmadapter.Adapter to turn a user message into a Plan, validates the
// result against the Plan schema, and retries on validation failure up to a
// configured cap before raising a PlannerError with the last issues attached.
package planner

import (
	"context"

	"github.com/groundedquery/core/genai/llmadapter"
	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/plan"
	"github.com/groundedquery/core/genai/telemetry"
)

const (
	defaultTemperature = 0.1
	defaultMaxRetries  = 2
)

// Planner wraps an Adapter with the schema-validate-retry discipline.
type Planner struct {
	Adapter     llmadapter.Adapter
	Temperature float64
	MaxRetries  int
}

// Plan invokes the adapter and validates its output, retrying on schema
// failures up to MaxRetries (default 2) before raising a PlannerError.
func (p *Planner) Plan(ctx context.Context, userMessage, systemContext string, allowedTools []string) (*plan.Plan, error) {
	temperature := p.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxRetries := p.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	req := llmadapter.PlanRequest{
		UserMessage:   userMessage,
		SystemContext: systemContext,
		AllowedTools:  allowedTools,
		Temperature:   temperature,
	}

	var lastIssues []string
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		candidate, err := p.Adapter.GeneratePlan(ctx, req)
		if err != nil {
			lastErr = err
			lastIssues = []string{err.Error()}
			telemetry.Warnf("planner", "attempt %d/%d failed: %v", attempt+1, maxRetries+1, err)
			continue
		}

		if verr := candidate.Validate(); verr != nil {
			lastIssues = []string{verr.Error()}
			telemetry.Warnf("planner", "attempt %d/%d produced an invalid plan: %v", attempt+1, maxRetries+1, verr)
			continue
		}

		return candidate, nil
	}

	return nil, orcherr.NewPlannerError(lastIssues, lastErr)
}
