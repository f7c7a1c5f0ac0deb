// Package answer implements the Answer Generator (C8): it invokes an
// llmadapter.Adapter with only tool results and the verifier report as
// grounding, then validates the returned structure against the Answer
// schema and enforces the citation subset invariant before handing the
// result back to the Pipeline Coordinator.
package answer

import (
	"context"
	"fmt"

	"github.com/groundedquery/core/genai/llmadapter"
	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/schema"
	"github.com/groundedquery/core/genai/toolruntime"
	"github.com/groundedquery/core/genai/verifier"
)

// Citation is one evidence pointer backing a factual claim in an Answer.
type Citation struct {
	Index        int    `json:"index" validate:"required"`
	EvidenceId   string `json:"evidenceId" validate:"required"`
	EvidenceType string `json:"evidenceType" validate:"required"`
	Label        string `json:"label,omitempty"`
}

// Answer is the validated, citation-checked output of the Answer Generator.
type Answer struct {
	Content   string     `json:"content" validate:"required"`
	Citations []Citation `json:"citations,omitempty" validate:"dive"`
	FollowUps []string   `json:"followUps,omitempty"`
}

// Generator invokes an Adapter and validates its output.
type Generator struct {
	Adapter llmadapter.Adapter
}

// Generate builds the AnswerRequest from the run's tool results and
// verifier report, invokes the adapter, and validates the response.
func (g *Generator) Generate(ctx context.Context, userMessage, systemContext string, results []*toolruntime.ExecutionResult, report *verifier.Report) (*Answer, error) {
	toolResults := successfulResults(results)

	raw, err := g.Adapter.GenerateAnswer(ctx, llmadapter.AnswerRequest{
		UserMessage:    userMessage,
		ToolResults:    toolResults,
		VerifierReport: report,
		SystemContext:  systemContext,
	})
	if err != nil {
		return nil, orcherr.NewToolExecutionError("answer generator", err)
	}

	return validate(raw, toolResults)
}

// StreamGenerate relays a streamed adapter response to the caller as
// fragments and, once the stream completes, calls the adapter's
// GenerateAnswer to produce the final validated Answer. The final Answer is
// built from that call, not from the relayed fragments.
func (g *Generator) StreamGenerate(ctx context.Context, userMessage, systemContext string, results []*toolruntime.ExecutionResult, report *verifier.Report) (<-chan llmadapter.AnswerFragment, func() (*Answer, error), error) {
	toolResults := successfulResults(results)
	req := llmadapter.AnswerRequest{
		UserMessage:    userMessage,
		ToolResults:    toolResults,
		VerifierReport: report,
		SystemContext:  systemContext,
	}

	fragments, err := g.Adapter.StreamAnswer(ctx, req)
	if err != nil {
		return nil, nil, orcherr.NewToolExecutionError("answer generator stream", err)
	}

	out := make(chan llmadapter.AnswerFragment)
	assembled := ""
	finalCh := make(chan struct {
		answer *Answer
		err    error
	}, 1)

	go func() {
		defer close(out)
		for f := range fragments {
			assembled += f.Text
			out <- f
		}
		raw, err := g.Adapter.GenerateAnswer(ctx, req)
		if err != nil {
			finalCh <- struct {
				answer *Answer
				err    error
			}{nil, orcherr.NewToolExecutionError("answer generator", err)}
			return
		}
		a, err := validate(raw, toolResults)
		finalCh <- struct {
			answer *Answer
			err    error
		}{a, err}
	}()

	final := func() (*Answer, error) {
		res := <-finalCh
		return res.answer, res.err
	}
	return out, final, nil
}

func successfulResults(results []*toolruntime.ExecutionResult) []*toolruntime.Result {
	var out []*toolruntime.Result
	for _, r := range results {
		if r.ToolResult != nil {
			out = append(out, r.ToolResult)
		}
	}
	return out
}

// validate enforces the schema and the citation subset invariant: every
// citation's evidenceId must name a ToolResult actually produced in this run.
func validate(raw *llmadapter.RawAnswer, toolResults []*toolruntime.Result) (*Answer, error) {
	a := &Answer{Content: raw.Content, FollowUps: raw.FollowUps}
	for _, c := range raw.Citations {
		a.Citations = append(a.Citations, Citation{
			Index:        c.Index,
			EvidenceId:   c.EvidenceId,
			EvidenceType: c.EvidenceType,
			Label:        c.Label,
		})
	}

	if issues := schema.Check(a); len(issues) > 0 {
		return nil, fmt.Errorf("answer failed schema validation: %v", issues)
	}

	if len(toolResults) == 0 {
		if len(a.Citations) > 0 {
			return nil, fmt.Errorf("answer cites evidence but no tool produced any in this run")
		}
		return a, nil
	}

	known := make(map[string]bool, len(toolResults))
	for _, tr := range toolResults {
		known[tr.ID] = true
	}
	for _, c := range a.Citations {
		if !known[c.EvidenceId] {
			return nil, fmt.Errorf("answer cites unknown evidence id %q", c.EvidenceId)
		}
	}
	return a, nil
}
