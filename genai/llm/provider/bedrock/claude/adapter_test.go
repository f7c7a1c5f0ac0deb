package claude

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundedquery/core/genai/llm"
)

func TestToRequest_FallsBackToClientDefaults(t *testing.T) {
	temperature := 0.1
	c := &Client{Model: "claude", MaxTokens: 512, Temperature: &temperature}

	req, err := c.ToRequest(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("how many rows are in orders?")},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 512, req.MaxTokens)
	assert.EqualValues(t, 0.1, req.Temperature)
}

func TestToRequest_RequestOptionsOverrideClientDefaults(t *testing.T) {
	clientTemp := 0.1
	c := &Client{Model: "claude", MaxTokens: 512, Temperature: &clientTemp}

	req, err := c.ToRequest(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("plan a sql.query over orders")},
		Options:  &llm.Options{MaxTokens: 2048, Temperature: 0.9},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2048, req.MaxTokens)
	assert.EqualValues(t, 0.9, req.Temperature)
}

// sqlQueryToolDefinition mirrors the shape the Planner hands providers for
// the sql.query tool, exercised here to confirm tool_use schemas survive
// conversion into Claude's ToolDefinition shape.
func sqlQueryToolDefinition() llm.Tool {
	return llm.NewFunctionTool(llm.ToolDefinition{
		Name:        "sql.query",
		Description: "Execute a read-only SQL query against the workspace warehouse",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"sql": map[string]interface{}{"type": "string"},
			},
		},
		Required: []string{"sql"},
	})
}

func TestToRequest_ConvertsToolDefinitions(t *testing.T) {
	c := &Client{Model: "claude"}

	req, err := c.ToRequest(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{llm.NewUserMessage("how many orders shipped last week?")},
		Options:  &llm.Options{Tools: []llm.Tool{sqlQueryToolDefinition()}},
	})
	require.NoError(t, err)
	require.Len(t, req.Tools, 1)
	assert.EqualValues(t, "sql.query", req.Tools[0].Name)
	assert.EqualValues(t, []string{"sql"}, req.Tools[0].InputSchema["required"])
}

func TestToRequest_ToolResultMessageBecomesToolResultBlock(t *testing.T) {
	c := &Client{Model: "claude"}

	req, err := c.ToRequest(context.Background(), &llm.GenerateRequest{
		Messages: []llm.Message{
			llm.NewUserMessage("how many orders shipped last week?"),
			{Role: llm.RoleTool, ToolCallId: "tc-1", Content: `{"rowCount":3}`},
		},
	})
	require.NoError(t, err)
	require.Len(t, req.Messages, 2)
	toolMsg := req.Messages[1]
	require.Len(t, toolMsg.Content, 1)
	assert.EqualValues(t, "tool_result", toolMsg.Content[0].Type)
	assert.EqualValues(t, "tc-1", toolMsg.Content[0].ToolUseId)
}
