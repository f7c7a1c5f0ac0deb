// Package policy implements the Tool Gate (C3) and the Policy Engine (C4):
// the whole-plan allowlist/cap check, the per-action SQL safety delegation,
// and the sanitized-argument substitution the Tool Runtime dispatches with.
package policy

import (
	"github.com/groundedquery/core/genai/llm"
	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/plan"
	"github.com/groundedquery/core/genai/sqlgate"
	"github.com/groundedquery/core/genai/tool"
)

const sqlQueryTool = "sql.query"

// Engine composes the Tool Gate and the SQL Safety Gate over a Plan.
type Engine struct {
	ToolGate *ToolGate
	SqlGate  sqlgate.PolicyConfig

	// ToolSchemas, when set, supplies the JSON-schema tool.ValidateArgs
	// checks a planner's arguments against before dispatch: missing
	// required fields get a default filled in where the schema declares
	// one, and are reported as decision errors otherwise.
	ToolSchemas map[string]llm.ToolDefinition
}

// Evaluate runs the whole-plan Tool Gate, then evaluates every action,
// producing one Decision per action. It returns a PolicyBlockedError-style
// error only when the whole plan is rejected by the Tool Gate; per-action
// rejections — including a source outside allowedSources — are reported
// inside the returned decisions instead. allowedSources comes from the
// run's RunContext.AllowedSources; an empty list runs unrestricted, the
// same permissive-when-empty convention sqlgate.PolicyConfig.AllowedTables
// uses.
func (e *Engine) Evaluate(p *plan.Plan, allowedSources []string) ([]*Decision, error) {
	if err := e.ToolGate.Check(p); err != nil {
		return nil, err
	}

	decisions := make([]*Decision, 0, len(p.Actions))
	for _, action := range p.Actions {
		decisions = append(decisions, e.evaluateAction(action, allowedSources))
	}
	return decisions, nil
}

func (e *Engine) evaluateAction(action *plan.Action, allowedSources []string) *Decision {
	d := &Decision{Action: action}

	args, problems := e.validateArgs(action)
	if len(problems) > 0 {
		for _, p := range problems {
			d.Errors = append(d.Errors, p.Name+": "+p.Reason)
		}
		return d
	}

	if err := checkSourcesAllowed(args, allowedSources); err != nil {
		d.Errors = append(d.Errors, err.Error())
		return d
	}

	if action.Tool != sqlQueryTool {
		d.Approved = true
		d.SanitizedArgs = args
		return d
	}

	sql, _ := args["sql"].(string)
	if sql == "" {
		d.Errors = append(d.Errors, "sql.query requires a non-empty \"sql\" argument")
		return d
	}

	result, err := sqlgate.Check(sql, e.SqlGate)
	if err != nil {
		d.Errors = append(d.Errors, err.Error())
		return d
	}
	if !result.Valid {
		d.Errors = append(d.Errors, result.Errors...)
		return d
	}

	sanitized := map[string]interface{}{}
	for k, v := range args {
		sanitized[k] = v
	}
	sanitized["sql"] = result.SanitizedSql
	d.Approved = true
	d.SanitizedArgs = sanitized
	return d
}

// checkSourcesAllowed rejects an action whose args name a sourceId (sql.query)
// or sourceIds (rag.search) outside allowedSources. An empty allowedSources
// leaves every source reachable.
func checkSourcesAllowed(args map[string]interface{}, allowedSources []string) error {
	if len(allowedSources) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(allowedSources))
	for _, s := range allowedSources {
		allowed[s] = true
	}
	for _, id := range sourceIdsOf(args) {
		if !allowed[id] {
			return orcherr.NewSourceNotFoundError(id)
		}
	}
	return nil
}

// sourceIdsOf collects every source identifier an action's args reference,
// under either the sql.query "sourceId" (string) or rag.search "sourceIds"
// (JSON array, decoded by schema.Decode as []interface{}) argument name.
func sourceIdsOf(args map[string]interface{}) []string {
	var ids []string
	if s, ok := args["sourceId"].(string); ok && s != "" {
		ids = append(ids, s)
	}
	if raw, ok := args["sourceIds"].([]interface{}); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				ids = append(ids, s)
			}
		}
	}
	return ids
}

// validateArgs fills in any schema-declared default for an argument the
// planner omitted and reports the required fields that remain missing. A
// tool with no registered schema passes its arguments through unchanged.
func (e *Engine) validateArgs(action *plan.Action) (map[string]interface{}, []tool.FieldError) {
	def, ok := e.ToolSchemas[action.Tool]
	if !ok {
		out := make(map[string]interface{}, len(action.Args))
		for k, v := range action.Args {
			out[k] = v
		}
		return out, nil
	}
	return tool.ValidateArgs(def, action.Args)
}
