package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, 200, c.MaxRows)
	assert.Equal(t, []string{"sql.query", "rag.search"}, c.AllowedTools)
	assert.Equal(t, 30000, c.ToolTimeoutMs)
	assert.Equal(t, 0.1, c.PlannerTemperature)
	assert.Equal(t, 2, c.PlannerMaxRetries)
	assert.Equal(t, 10, c.MaxToolCallsPerPlan)
	assert.NotEmpty(t, c.ForbiddenFunctions)
	require.NoError(t, c.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(context.Background(), "/does/not/exist/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 200, c.MaxRows)
}

func TestValidate_RejectsNegativeMaxRows(t *testing.T) {
	c := Default()
	c.MaxRows = -1
	assert.Error(t, c.Validate())
}
