package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundedquery/core/genai/toolruntime"
)

func successResult(id string, rowCount int) *toolruntime.ExecutionResult {
	return &toolruntime.ExecutionResult{
		ToolCall:   &toolruntime.Call{ToolName: "sql.query", Status: toolruntime.StatusSuccess},
		ToolResult: &toolruntime.Result{ID: id, RowCount: rowCount},
	}
}

func failureResult(msg string) *toolruntime.ExecutionResult {
	return &toolruntime.ExecutionResult{
		ToolCall: &toolruntime.Call{ToolName: "sql.query", Status: toolruntime.StatusError, ErrorMessage: msg},
	}
}

func TestVerify_AllSucceedApproved(t *testing.T) {
	report := Verify([]*toolruntime.ExecutionResult{successResult("tr-1", 3)}, "how many rows?")
	assert.True(t, report.Approved)
	assert.Empty(t, report.Summary)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "tr-1", report.Checks[1].EvidenceId)
}

func TestVerify_MixedResultsStillApprovedOnCoverage(t *testing.T) {
	report := Verify([]*toolruntime.ExecutionResult{
		successResult("tr-1", 1),
		failureResult("connection reset"),
	}, "q")
	assert.True(t, report.Approved)
	assert.Empty(t, report.Summary)
	assert.Len(t, report.SuggestedActions, 1)
}

func TestVerify_ZeroRowsButNonEmptyDataIsSupported(t *testing.T) {
	report := Verify([]*toolruntime.ExecutionResult{
		{
			ToolCall:   &toolruntime.Call{ToolName: "rag.search", Status: toolruntime.StatusSuccess},
			ToolResult: &toolruntime.Result{ID: "tr-1", RowCount: 0, Data: &toolruntime.RagSearchResult{Chunks: []toolruntime.Chunk{{ChunkId: "c1"}}}},
		},
	}, "q")
	assert.True(t, report.Approved)
}

func TestVerifyOrThrow_AllFailedIsFatal(t *testing.T) {
	_, err := VerifyOrThrow([]*toolruntime.ExecutionResult{failureResult("timeout"), failureResult("timeout")}, "q")
	require.Error(t, err)
}

func TestVerifyOrThrow_NoAttemptsIsNotFatal(t *testing.T) {
	report, err := VerifyOrThrow(nil, "q")
	require.NoError(t, err)
	assert.False(t, report.Approved)
}

func TestVerifyOrThrow_PartialFailureIsNotFatalAndIsApproved(t *testing.T) {
	report, err := VerifyOrThrow([]*toolruntime.ExecutionResult{successResult("tr-1", 1), failureResult("timeout")}, "q")
	require.NoError(t, err)
	assert.True(t, report.Approved)
}
