// Package orchestrator implements the Pipeline Coordinator (C9): the
// PLAN -> POLICY -> EXEC -> VERIFY -> ANSWER -> DONE state machine that
// drives the other eight components and emits the run's StreamEvents in the
// exact order the concurrency model requires.
package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"github.com/groundedquery/core/genai/answer"
	"github.com/groundedquery/core/genai/evidence"
	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/plan"
	"github.com/groundedquery/core/genai/planner"
	"github.com/groundedquery/core/genai/policy"
	"github.com/groundedquery/core/genai/stage"
	"github.com/groundedquery/core/genai/telemetry"
	"github.com/groundedquery/core/genai/toolruntime"
	"github.com/groundedquery/core/genai/verifier"
)

// Coordinator owns a RunContext, the Plan, the PolicyDecisions, and the
// ToolExecutionResults for the duration of one run; it is the sole writer of
// all four. It is single-goroutine-equivalent: nothing downstream of emit
// can influence its control flow.
type Coordinator struct {
	Planner  *planner.Planner
	Policy   *policy.Engine
	Runtime  *toolruntime.Runtime
	Answer   *answer.Generator
	Evidence evidence.BestEffort

	AllowedTools []string
	// WorkflowName identifies this Coordinator's pipeline in Snapshot()
	// output; it has no effect on the emitted StreamEvents.
	WorkflowName string

	live *stage.Stage
}

// Snapshot returns the run's current Stage, for consumers reading status
// outside the event stream (a UI indicator, a liveness probe). It reflects
// the most recent transition Run has made. Run updates the stage without
// synchronization, so Snapshot is safe to call from the emit callback or
// after Run returns, not from another goroutine while Run is in progress.
func (c *Coordinator) Snapshot() *stage.Stage {
	if c.live == nil {
		return stage.New(c.WorkflowName, "")
	}
	return c.live
}

func (c *Coordinator) transition(phase string) {
	c.live = stage.New(c.WorkflowName, phase)
}

// Emit is called once per StreamEvent, in the exact order the run produces
// them. Implementations MUST NOT block indefinitely; the Coordinator treats
// emit as the back-pressure suspension point described in the concurrency
// model.
type Emit func(Event)

// Run drives one request end to end. It returns nothing: every failure the
// protocol models is reported as an error event followed by done.
func (c *Coordinator) Run(ctx context.Context, rc *RunContext, emit Emit) {
	emit(Event{Tag: EventMeta, Payload: MetaPayload{ThreadID: rc.ThreadID, MessageID: rc.MessageID}})

	c.transition(stage.PhasePlanning)
	emit(Event{Tag: EventStatus, Payload: StatusPayload{Stage: StagePlanning}})
	p, err := c.Planner.Plan(ctx, rc.UserMessage, "", c.AllowedTools)
	if err != nil {
		c.fail(emit, StagePlanning, err)
		return
	}
	emit(Event{Tag: EventPlan, Payload: p})

	if ctx.Err() != nil {
		c.cancelled(emit)
		return
	}

	if p.NeedsClarification {
		c.clarify(ctx, rc, emit, p)
		return
	}

	c.transition(stage.PhasePolicy)
	emit(Event{Tag: EventStatus, Payload: StatusPayload{Stage: StagePolicy}})
	decisions, err := c.Policy.Evaluate(p, rc.AllowedSources)
	if err != nil {
		c.fail(emit, StagePolicy, orcherr.NewPolicyBlockedError(err.Error()))
		return
	}
	if !policy.AnyApproved(decisions) {
		c.fail(emit, StagePolicy, orcherr.NewPolicyBlockedError("every action in the plan was rejected by policy"))
		return
	}

	if ctx.Err() != nil {
		c.cancelled(emit)
		return
	}

	results := c.execute(ctx, rc, emit, decisions)

	c.transition(stage.PhaseVerifying)
	emit(Event{Tag: EventStatus, Payload: StatusPayload{Stage: StageVerifying}})
	report, err := verifier.VerifyOrThrow(results, rc.UserMessage)
	if err != nil {
		c.fail(emit, StageVerifying, err)
		return
	}
	emit(Event{Tag: EventVerification, Payload: report})

	if ctx.Err() != nil {
		c.cancelled(emit)
		return
	}

	c.transition(stage.PhaseAnswering)
	emit(Event{Tag: EventStatus, Payload: StatusPayload{Stage: StageAnswering}})
	a, err := c.Answer.Generate(ctx, rc.UserMessage, "", results, report)
	if err != nil {
		c.fail(emit, StageAnswering, err)
		return
	}
	emit(Event{Tag: EventAnswer, Payload: a})
	c.Evidence.InsertMessage(ctx, rc.ThreadID, rc.MessageID, "assistant", a.Content)

	c.transition(stage.PhaseDone)
	emit(Event{Tag: EventDone, Payload: DonePayload{}})
}

// clarify implements the PLAN -> needs_clarification -> DONE(clarify)
// transition: no policy stage, no tools, the clarification question becomes
// the Answer content with no citations.
func (c *Coordinator) clarify(ctx context.Context, rc *RunContext, emit Emit, p *plan.Plan) {
	emit(Event{Tag: EventAnswer, Payload: &answer.Answer{Content: p.ClarificationQuestion}})
	c.Evidence.InsertMessage(ctx, rc.ThreadID, rc.MessageID, "assistant", p.ClarificationQuestion)
	emit(Event{Tag: EventDone, Payload: DonePayload{}})
}

// execute drives the EXEC state: one tool_call_start/tool_call_end pair per
// decision, strictly ordered and never interleaved, persisting each audit
// record best-effort as it completes.
func (c *Coordinator) execute(ctx context.Context, rc *RunContext, emit Emit, decisions []*policy.Decision) []*toolruntime.ExecutionResult {
	c.transition(stage.PhaseToolsRunning)
	emit(Event{Tag: EventStatus, Payload: StatusPayload{Stage: StageToolsRunning}})

	results := make([]*toolruntime.ExecutionResult, 0, len(decisions))
	for _, d := range decisions {
		args := d.SanitizedArgs
		if args == nil && d.Action != nil {
			args = d.Action.Args
		}
		c.live = c.live.WithTool(d.Action.Tool)
		emit(Event{Tag: EventToolCallStart, Payload: ToolCallStartPayload{Tool: d.Action.Tool, Args: args}})

		result := c.Runtime.ExecuteOne(ctx, d, rc.ThreadID, rc.WorkspaceID, rc.MessageID)
		results = append(results, result)

		c.Evidence.InsertToolCall(ctx, result.ToolCall)
		if result.ToolResult != nil {
			c.Evidence.InsertToolResult(ctx, result.ToolResult)
		}

		end := ToolCallEndPayload{
			Tool:       result.ToolCall.ToolName,
			Status:     string(result.ToolCall.Status),
			DurationMs: result.ToolCall.DurationMs,
			Error:      result.ToolCall.ErrorMessage,
		}
		if result.ToolResult != nil {
			end.RowCount = result.ToolResult.RowCount
		}
		emit(Event{Tag: EventToolCallEnd, Payload: end})

		if ctx.Err() != nil {
			break
		}
	}
	return results
}

func (c *Coordinator) fail(emit Emit, at Stage, err error) {
	telemetry.Errorf("orchestrator", "run failed at stage %s: %v", at, err)
	c.transition(stage.PhaseError)
	emit(Event{Tag: EventError, Payload: ErrorPayload{Message: err.Error(), Stage: at}})
	emit(Event{Tag: EventDone, Payload: DonePayload{}})
}

func (c *Coordinator) cancelled(emit Emit) {
	c.transition(stage.PhaseError)
	emit(Event{Tag: EventError, Payload: ErrorPayload{Message: "cancelled"}})
	emit(Event{Tag: EventDone, Payload: DonePayload{}})
}

// NewMessageID generates a fresh message identifier the way callers outside
// the HTTP surface can use when constructing a RunContext.
func NewMessageID() string {
	return uuid.NewString()
}
