// Package config loads the orchestration core's tunables from a YAML file,
// the way the teacher repo loads its own workspace config: github.com/viant/afs
// for the download and gopkg.in/yaml.v3 for decoding, with defaults filled in
// for anything the file omits.
package config

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/groundedquery/core/genai/sqlgate"
)

// Config holds every tunable named in the external interfaces table.
type Config struct {
	MaxRows             int      `yaml:"maxRows,omitempty"`
	AllowedTables       []string `yaml:"allowedTables,omitempty"`
	AllowedTools        []string `yaml:"allowedTools,omitempty"`
	ToolTimeoutMs       int      `yaml:"toolTimeoutMs,omitempty"`
	PlannerTemperature  float64  `yaml:"plannerTemperature,omitempty"`
	PlannerMaxRetries   int      `yaml:"plannerMaxRetries,omitempty"`
	ForbiddenFunctions  []string `yaml:"forbiddenFunctions,omitempty"`
	MaxToolCallsPerPlan int      `yaml:"maxToolCallsPerPlan,omitempty"`
}

// Default returns a Config with every field at its spec-mandated default.
func Default() *Config {
	return &Config{
		MaxRows:             200,
		AllowedTools:        []string{"sql.query", "rag.search"},
		ToolTimeoutMs:       30000,
		PlannerTemperature:  0.1,
		PlannerMaxRetries:   2,
		ForbiddenFunctions:  sqlgate.DefaultForbiddenFunctions(),
		MaxToolCallsPerPlan: 10,
	}
}

// Load downloads path (any afs-supported scheme) and decodes it over the
// spec's defaults; fields absent from the file keep their default value.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := Default()
	fs := afs.New()
	ok, _ := fs.Exists(ctx, path)
	if !ok {
		return cfg, nil
	}
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects obviously-broken tunables before a run ever starts.
func (c *Config) Validate() error {
	if c.MaxRows < 0 {
		return fmt.Errorf("maxRows must be >= 0")
	}
	if c.MaxToolCallsPerPlan <= 0 {
		return fmt.Errorf("maxToolCallsPerPlan must be > 0")
	}
	if c.ToolTimeoutMs <= 0 {
		return fmt.Errorf("toolTimeoutMs must be > 0")
	}
	if c.PlannerTemperature < 0 {
		return fmt.Errorf("plannerTemperature must be >= 0")
	}
	return nil
}

// SqlGate projects the relevant fields into a sqlgate.PolicyConfig.
func (c *Config) SqlGate() sqlgate.PolicyConfig {
	return sqlgate.PolicyConfig{
		MaxRows:            c.MaxRows,
		AllowedTables:      c.AllowedTables,
		ForbiddenFunctions: c.ForbiddenFunctions,
	}
}
