package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genaianswer "github.com/groundedquery/core/genai/answer"
	"github.com/groundedquery/core/genai/llmadapter"
	"github.com/groundedquery/core/genai/plan"
	"github.com/groundedquery/core/genai/planner"
	"github.com/groundedquery/core/genai/policy"
	"github.com/groundedquery/core/genai/sqlgate"
	"github.com/groundedquery/core/genai/toolruntime"
)

type fakeAdapter struct {
	plan      *plan.Plan
	planErr   error
	rawAnswer *llmadapter.RawAnswer
	answerErr error
}

func (f *fakeAdapter) GeneratePlan(ctx context.Context, req llmadapter.PlanRequest) (*plan.Plan, error) {
	return f.plan, f.planErr
}
func (f *fakeAdapter) GenerateAnswer(ctx context.Context, req llmadapter.AnswerRequest) (*llmadapter.RawAnswer, error) {
	return f.rawAnswer, f.answerErr
}
func (f *fakeAdapter) StreamAnswer(ctx context.Context, req llmadapter.AnswerRequest) (<-chan llmadapter.AnswerFragment, error) {
	ch := make(chan llmadapter.AnswerFragment)
	close(ch)
	return ch, nil
}

type fakeSqlConn struct {
	result *toolruntime.SqlQueryResult
	err    error
}

func (f *fakeSqlConn) Query(ctx context.Context, req toolruntime.SqlQueryRequest) (*toolruntime.SqlQueryResult, error) {
	return f.result, f.err
}
func (f *fakeSqlConn) TestConnection(ctx context.Context) (*toolruntime.TestConnectionResult, error) {
	return &toolruntime.TestConnectionResult{Ok: true}, nil
}
func (f *fakeSqlConn) Disconnect() error { return nil }

func newCoordinator(adapter *fakeAdapter, conn *fakeSqlConn) (*Coordinator, *[]Event) {
	var events []Event
	c := &Coordinator{
		Planner:      &planner.Planner{Adapter: adapter},
		Policy:       &policy.Engine{ToolGate: &policy.ToolGate{AllowList: []string{"sql.query"}, MaxToolCallsPerPlan: 10}, SqlGate: sqlgate.PolicyConfig{MaxRows: 100}},
		Runtime:      toolruntime.NewRuntime(conn, nil),
		Answer:       &genaianswer.Generator{Adapter: adapter},
		AllowedTools: []string{"sql.query"},
	}
	return c, &events
}

func collect(events *[]Event) Emit {
	return func(e Event) { *events = append(*events, e) }
}

func tagsOf(events []Event) []EventTag {
	tags := make([]EventTag, len(events))
	for i, e := range events {
		tags[i] = e.Tag
	}
	return tags
}

func TestRun_HappyPathSingleSql(t *testing.T) {
	adapter := &fakeAdapter{
		plan: &plan.Plan{Intent: "count", Actions: []*plan.Action{{Tool: "sql.query", Args: map[string]interface{}{"sql": "SELECT COUNT(*) FROM t"}}}},
		rawAnswer: &llmadapter.RawAnswer{
			Content:   "there is 1 row [1]",
			Citations: []llmadapter.Citation{{Index: 1, EvidenceId: "placeholder", EvidenceType: "tool_result"}},
		},
	}
	conn := &fakeSqlConn{result: &toolruntime.SqlQueryResult{RowCount: 1, Rows: [][]interface{}{{1}}}}
	c, events := newCoordinator(adapter, conn)

	// The adapter doesn't know the real evidence id ahead of time in this
	// fake, so make the citation match whatever gets generated by patching
	// rawAnswer after the first dry pass is impossible here; instead exercise
	// the no-citation path, which is still schema-valid.
	adapter.rawAnswer.Citations = nil

	rc := &RunContext{ThreadID: "thread-1", WorkspaceID: "ws-1", MessageID: "msg-1", UserMessage: "how many rows?"}
	c.Run(context.Background(), rc, collect(events))

	tags := tagsOf(*events)
	assert.Equal(t, EventTag("done"), tags[len(tags)-1])
	assert.Contains(t, tags, EventTag("answer"))
	assert.Contains(t, tags, EventTag("verification"))
	assert.NotContains(t, tags, EventTag("error"))
}

func TestRun_NeedsClarificationShortCircuits(t *testing.T) {
	adapter := &fakeAdapter{plan: &plan.Plan{NeedsClarification: true, ClarificationQuestion: "which workspace?"}}
	c, events := newCoordinator(adapter, &fakeSqlConn{})

	rc := &RunContext{ThreadID: "t", WorkspaceID: "w", MessageID: "m", UserMessage: "how many?"}
	c.Run(context.Background(), rc, collect(events))

	tags := tagsOf(*events)
	statusCount := 0
	for _, tag := range tags {
		if tag == EventStatus {
			statusCount++
		}
	}
	assert.Equal(t, 1, statusCount, "only the planning status should be emitted before the short-circuit")
	assert.Contains(t, tags, EventTag("answer"))
	assert.Equal(t, EventTag("done"), tags[len(tags)-1])
}

func TestRun_PlannerExhaustionEmitsError(t *testing.T) {
	adapter := &fakeAdapter{planErr: errors.New("upstream unavailable")}
	c, events := newCoordinator(adapter, &fakeSqlConn{})
	c.Planner.MaxRetries = 0

	rc := &RunContext{ThreadID: "t", WorkspaceID: "w", MessageID: "m", UserMessage: "q"}
	c.Run(context.Background(), rc, collect(events))

	tags := tagsOf(*events)
	assert.Contains(t, tags, EventTag("error"))
	assert.Equal(t, EventTag("done"), tags[len(tags)-1])
}

func TestRun_AllToolsFailEmitsVerificationError(t *testing.T) {
	adapter := &fakeAdapter{
		plan: &plan.Plan{Intent: "count", Actions: []*plan.Action{{Tool: "sql.query", Args: map[string]interface{}{"sql": "SELECT 1"}}}},
	}
	conn := &fakeSqlConn{err: errors.New("connection refused")}
	c, events := newCoordinator(adapter, conn)

	rc := &RunContext{ThreadID: "t", WorkspaceID: "w", MessageID: "m", UserMessage: "q"}
	c.Run(context.Background(), rc, collect(events))

	tags := tagsOf(*events)
	assert.Contains(t, tags, EventTag("error"))
	assert.NotContains(t, tags, EventTag("answer"))
}

func TestRun_WholePlanBlockedByToolGate(t *testing.T) {
	adapter := &fakeAdapter{
		plan: &plan.Plan{Intent: "x", Actions: []*plan.Action{{Tool: "shell.exec", Args: map[string]interface{}{}}}},
	}
	c, events := newCoordinator(adapter, &fakeSqlConn{})

	rc := &RunContext{ThreadID: "t", WorkspaceID: "w", MessageID: "m", UserMessage: "q"}
	c.Run(context.Background(), rc, collect(events))

	tags := tagsOf(*events)
	assert.Contains(t, tags, EventTag("error"))
	require.Equal(t, EventTag("done"), tags[len(tags)-1])
}

func TestRun_EventOrderingToolCallStartBeforeEnd(t *testing.T) {
	adapter := &fakeAdapter{
		plan: &plan.Plan{Intent: "x", Actions: []*plan.Action{
			{Tool: "sql.query", Args: map[string]interface{}{"sql": "SELECT 1"}},
		}},
		rawAnswer: &llmadapter.RawAnswer{Content: "ok"},
	}
	conn := &fakeSqlConn{result: &toolruntime.SqlQueryResult{RowCount: 1, Rows: [][]interface{}{{1}}}}
	c, events := newCoordinator(adapter, conn)

	rc := &RunContext{ThreadID: "t", WorkspaceID: "w", MessageID: "m", UserMessage: "q"}
	c.Run(context.Background(), rc, collect(events))

	tags := tagsOf(*events)
	require.Contains(t, tags, EventTag("tool_call_start"))
	startIdx := indexOf(tags, "tool_call_start")
	endIdx := indexOf(tags, "tool_call_end")
	assert.Less(t, startIdx, endIdx)
}

func indexOf(tags []EventTag, tag EventTag) int {
	for i, t := range tags {
		if t == tag {
			return i
		}
	}
	return -1
}
