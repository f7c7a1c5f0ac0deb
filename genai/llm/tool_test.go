package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

func TestToolDefinitionFromMcpTool(t *testing.T) {
	description := "execute a read-only SQL query"
	mcpTool := &mcpschema.Tool{
		Name:        "sql.query",
		Description: &description,
		InputSchema: mcpschema.ToolInputSchema{
			Type: "object",
			Properties: mcpschema.ToolInputSchemaProperties{
				"sql": {"type": "string"},
			},
			Required: []string{"sql"},
		},
		OutputSchema: &mcpschema.ToolOutputSchema{
			Type:       "object",
			Properties: map[string]map[string]interface{}{"rowCount": {"type": "integer"}},
		},
	}

	def := ToolDefinitionFromMcpTool(mcpTool)
	assert.EqualValues(t, "sql.query", def.Name)
	assert.EqualValues(t, description, def.Description)
	assert.EqualValues(t, []string{"sql"}, def.Required)
	assert.EqualValues(t, mcpTool.InputSchema.Properties, def.Parameters["properties"])
	assert.EqualValues(t, mcpTool.OutputSchema.Properties, def.OutputSchema["properties"])
}

func TestToolDefinitionFromMcpTool_NoDescriptionOrOutputSchema(t *testing.T) {
	mcpTool := &mcpschema.Tool{
		Name: "ping",
		InputSchema: mcpschema.ToolInputSchema{
			Type:       "object",
			Properties: mcpschema.ToolInputSchemaProperties{},
		},
	}

	def := ToolDefinitionFromMcpTool(mcpTool)
	assert.Empty(t, def.Description)
	assert.EqualValues(t, "object", def.OutputSchema["type"])
	assert.Empty(t, def.OutputSchema["properties"])
}

func TestToolDefinition_NormalizeCoercesMcpInputSchemaProperties(t *testing.T) {
	def := &ToolDefinition{
		Parameters: map[string]interface{}{
			"properties": mcpschema.ToolInputSchemaProperties{
				"sourceId": {"type": "string"},
			},
		},
	}
	def.Normalize()

	props, ok := def.Parameters["properties"].(map[string]interface{})
	if assert.True(t, ok, "properties should be coerced to map[string]interface{}") {
		assert.Contains(t, props, "sourceId")
	}
	assert.EqualValues(t, "object", def.Parameters["type"])
}
