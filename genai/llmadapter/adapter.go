// Package llmadapter defines the opaque LlmAdapter contract the Planner and
// Answer Generator depend on. The core makes no assumption about whether an
// implementation is deterministic, remote, or local; genai/llmadapter/bedrock
// supplies one concrete implementation, built on the Claude-on-Bedrock client
// in genai/llm/provider/bedrock/claude.
package llmadapter

import (
	"context"

	"github.com/groundedquery/core/genai/plan"
	"github.com/groundedquery/core/genai/toolruntime"
	"github.com/groundedquery/core/genai/verifier"
)

// PlanRequest is everything the Planner passes to generatePlan.
type PlanRequest struct {
	UserMessage   string
	SystemContext string
	AllowedTools  []string
	Temperature   float64
}

// AnswerRequest is everything the Answer Generator passes to generateAnswer
// or streamAnswer. ToolResults and VerifierReport are the only evidence the
// adapter is allowed to ground its output in.
type AnswerRequest struct {
	UserMessage    string
	ToolResults    []*toolruntime.Result
	VerifierReport *verifier.Report
	SystemContext  string
}

// AnswerFragment is one piece of a streamed answer. The Answer Generator
// relays fragments to its caller and still calls GenerateAnswer so a
// validated Answer with citations is always produced at the end of a stream.
type AnswerFragment struct {
	Text string
	Done bool
}

// Adapter is the contract a language model integration must satisfy. It is
// intentionally minimal: the core never inspects model identity, pricing, or
// provider-specific options.
type Adapter interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (*plan.Plan, error)
	GenerateAnswer(ctx context.Context, req AnswerRequest) (*RawAnswer, error)
	StreamAnswer(ctx context.Context, req AnswerRequest) (<-chan AnswerFragment, error)
}

// RawAnswer is the adapter's unvalidated output; the Answer Generator is
// responsible for checking it against the Answer schema and the citation
// subset invariant before it becomes a genai/answer.Answer.
type RawAnswer struct {
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	FollowUps []string   `json:"followUps,omitempty"`
}

// Citation mirrors the wire shape an adapter must produce per factual claim.
type Citation struct {
	Index        int    `json:"index"`
	EvidenceId   string `json:"evidenceId"`
	EvidenceType string `json:"evidenceType"`
	Label        string `json:"label,omitempty"`
}
