// Package toolruntime implements the Tool Runtime (C6): it dispatches
// approved actions to a connector by tool name, enforces a per-call
// timeout, computes the evidence checksum, and builds the ToolCall/ToolResult
// audit trail. It never raises a failed action out of the sequence; a
// connector error or timeout becomes a ToolCall with status=error and
// execution of the remaining actions continues.
package toolruntime

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/policy"
	"github.com/groundedquery/core/genai/telemetry"
)

const defaultToolTimeout = 30 * time.Second

// Handler dispatches one approved action's sanitized arguments to a
// connector and returns the raw result shape (either *SqlQueryResult or
// *RagSearchResult, or any custom payload an extension tool registers).
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, int, error)

// TimeoutResolver optionally overrides the per-call timeout for a specific
// tool name; returning 0 falls back to the runtime's configured default.
type TimeoutResolver func(toolName string) time.Duration

// Runtime holds the open dispatch table of tool name -> Handler.
type Runtime struct {
	handlers map[string]Handler

	// DefaultTimeout is used when no TimeoutResolver is set or it returns 0.
	DefaultTimeout time.Duration
	// ResolveTimeout, when set, is consulted before DefaultTimeout.
	ResolveTimeout TimeoutResolver
	// DebugWriter, when set, receives a line per dispatched call.
	DebugWriter io.Writer
}

// NewRuntime builds a Runtime with the two core connectors registered under
// their spec-defined tool names. Either connector may be nil if that tool
// family is unused by the deployment.
func NewRuntime(sql SqlConnector, rag RagConnector) *Runtime {
	rt := &Runtime{handlers: make(map[string]Handler), DefaultTimeout: defaultToolTimeout}
	if sql != nil {
		rt.Register("sql.query", sqlHandler(sql))
	}
	if rag != nil {
		rt.Register("rag.search", ragHandler(rag))
	}
	return rt
}

// Register adds or replaces a dispatch entry, extending the table beyond
// the two core tools.
func (rt *Runtime) Register(toolName string, h Handler) {
	if rt.handlers == nil {
		rt.handlers = make(map[string]Handler)
	}
	rt.handlers[toolName] = h
}

func sqlHandler(conn SqlConnector) Handler {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, int, error) {
		req := SqlQueryRequest{
			Sql:         stringArg(args, "sql"),
			SourceId:    stringArg(args, "sourceId"),
			WorkspaceId: stringArg(args, "workspaceId"),
			MaxRows:     intArg(args, "maxRows"),
		}
		res, err := conn.Query(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		if req.MaxRows > 0 && len(res.Rows) > req.MaxRows {
			res.Rows = res.Rows[:req.MaxRows]
			res.RowCount = req.MaxRows
			res.Truncated = true
		}
		return res, res.RowCount, nil
	}
}

func ragHandler(conn RagConnector) Handler {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, int, error) {
		req := RagSearchRequest{
			Query:       stringArg(args, "query"),
			WorkspaceId: stringArg(args, "workspaceId"),
			TopK:        intArg(args, "topK"),
		}
		req.SourceIds = stringSliceArg(args, "sourceIds")
		res, err := conn.Search(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		return res, len(res.Chunks), nil
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// stringSliceArg coerces a JSON-decoded array argument to []string. A plan
// action's args come from schema.Decode's json.Unmarshal into
// map[string]interface{}, so a JSON array always arrives as []interface{}
// with string elements, never []string directly.
func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ExecuteActions runs one ExecutionResult per approved decision, in plan
// order. Rejected decisions are reflected as blocked ToolCalls rather than
// dispatched. Every tool call is sequential and ordering-dependent: a plan's
// actions may reference each other's evidence implicitly through the
// accumulating audit trail, so later actions always start after earlier
// ones finish.
func (rt *Runtime) ExecuteActions(ctx context.Context, decisions []*policy.Decision, threadID, workspaceID, messageID string) []*ExecutionResult {
	results := make([]*ExecutionResult, 0, len(decisions))
	for _, d := range decisions {
		results = append(results, rt.ExecuteOne(ctx, d, threadID, workspaceID, messageID))
	}
	return results
}

// ExecuteOne dispatches a single decision, or builds a blocked record
// without dispatching when the decision was not approved. Exported so a
// caller driving the per-action tool_call_start/tool_call_end event pair
// (the Pipeline Coordinator) can call it directly instead of batching.
func (rt *Runtime) ExecuteOne(ctx context.Context, d *policy.Decision, threadID, workspaceID, messageID string) *ExecutionResult {
	if !d.Approved {
		call := NewBlockedCall(uuid.NewString(), d.Action.Tool, d.Action.Args, joinErrors(d.Errors))
		call.ThreadID, call.WorkspaceID, call.MessageID = threadID, workspaceID, messageID
		return &ExecutionResult{ToolCall: call}
	}
	return rt.executeOne(ctx, d, threadID, workspaceID, messageID)
}

func (rt *Runtime) executeOne(ctx context.Context, d *policy.Decision, threadID, workspaceID, messageID string) *ExecutionResult {
	call := &Call{
		ID:          uuid.NewString(),
		MessageID:   messageID,
		ThreadID:    threadID,
		WorkspaceID: workspaceID,
		ToolName:    d.Action.Tool,
		ToolArgs:    d.SanitizedArgs,
		Status:      StatusRunning,
		StartedAt:   time.Now().UTC(),
	}

	handler, ok := rt.handlers[d.Action.Tool]
	if !ok {
		return rt.fail(call, fmt.Errorf("tool %q has no registered connector", d.Action.Tool))
	}

	timeout := rt.timeoutFor(d.Action.Tool)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	telemetry.Infof("toolruntime", "dispatching %s call=%s timeout=%s", d.Action.Tool, call.ID, timeout)
	rt.debugf("[tool] call %s args=%v\n", d.Action.Tool, d.SanitizedArgs)

	data, rowCount, err := handler(callCtx, d.SanitizedArgs)
	if err != nil {
		rt.debugf("[tool] error %s: %v\n", d.Action.Tool, err)
		return rt.fail(call, err)
	}

	return rt.succeed(call, data, rowCount)
}

func (rt *Runtime) fail(call *Call, err error) *ExecutionResult {
	call.Status = StatusError
	call.FinishedAt = time.Now().UTC()
	call.DurationMs = call.FinishedAt.Sub(call.StartedAt).Milliseconds()
	call.ErrorMessage = err.Error()
	return &ExecutionResult{ToolCall: call}
}

func (rt *Runtime) succeed(call *Call, data interface{}, rowCount int) *ExecutionResult {
	call.Status = StatusSuccess
	call.FinishedAt = time.Now().UTC()
	call.DurationMs = call.FinishedAt.Sub(call.StartedAt).Milliseconds()

	checksum, err := checksumOf(data)
	if err != nil {
		return rt.fail(call, orcherr.NewToolExecutionError("failed to checksum tool result", err))
	}

	result := &Result{
		ID:          uuid.NewString(),
		ToolCallID:  call.ID,
		ThreadID:    call.ThreadID,
		WorkspaceID: call.WorkspaceID,
		Data:        data,
		RowCount:    rowCount,
		Checksum:    checksum,
	}
	if rows := rowsOf(data); rows != nil {
		result.PreviewRows = previewOf(rows)
	}

	rt.debugf("[tool] result %s: rowCount=%d checksum=%s\n", call.ToolName, rowCount, checksum)
	return &ExecutionResult{ToolCall: call, ToolResult: result}
}

// rowsOf extracts a generic row slice out of the two core result shapes so
// previewRows can be built without each connector knowing about previewing.
func rowsOf(data interface{}) []interface{} {
	switch v := data.(type) {
	case *SqlQueryResult:
		rows := make([]interface{}, len(v.Rows))
		for i, r := range v.Rows {
			rows[i] = r
		}
		return rows
	case *RagSearchResult:
		rows := make([]interface{}, len(v.Chunks))
		for i, c := range v.Chunks {
			rows[i] = c
		}
		return rows
	default:
		return nil
	}
}

func (rt *Runtime) timeoutFor(toolName string) time.Duration {
	if rt.ResolveTimeout != nil {
		if d := rt.ResolveTimeout(toolName); d > 0 {
			return d
		}
	}
	if rt.DefaultTimeout > 0 {
		return rt.DefaultTimeout
	}
	return defaultToolTimeout
}

func (rt *Runtime) debugf(format string, args ...interface{}) {
	if rt.DebugWriter == nil {
		return
	}
	fmt.Fprintf(rt.DebugWriter, format, args...)
}

func joinErrors(errs []string) string {
	if len(errs) == 0 {
		return "action blocked by policy"
	}
	out := errs[0]
	for _, e := range errs[1:] {
		out += "; " + e
	}
	return out
}
