// Package sqlgate is the AST-based SQL safety gate: it is the only path by
// which a planner-produced SQL string may become an executable query.
// Regex classification of SQL is unsound on its own, so parsing to an AST is
// the primary check; the forbidden-function scan over the raw text exists
// only as a secondary, defence-in-depth layer.
package sqlgate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/viant/sqlparser"
	"github.com/viant/sqlparser/expr"
	"github.com/viant/sqlparser/node"
	"github.com/viant/sqlparser/query"

	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/telemetry"
)

// Result is the outcome of running the gate against one candidate SQL string.
type Result struct {
	Valid            bool
	SanitizedSql     string
	EffectiveLimit   int
	ReferencedTables []string
	Errors           []string
}

var trailingLimitRe = regexp.MustCompile(`(?i)\bLIMIT\s+([0-9]+)\s*;?\s*$`)
var anyTrailingLimitRe = regexp.MustCompile(`(?i)\bLIMIT\b[^;]*;?\s*$`)
var leadingSelectRe = regexp.MustCompile(`(?i)^SELECT\b`)

// Check runs the eight-step safety algorithm against sql under cfg.
func Check(sql string, cfg PolicyConfig) (*Result, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(sql), "; \t\n")

	if countStatements(trimmed) != 1 {
		return &Result{Errors: []string{"multiple statements are not permitted"}}, nil
	}

	stmt, err := sqlparser.ParseQuery(trimmed)
	if err != nil {
		return nil, orcherr.NewSqlSafetyError("failed to parse SQL as a single SELECT statement", err)
	}
	// The parser accepts some non-SELECT statements without an error, so the
	// root statement kind is checked on the text as well.
	if !leadingSelectRe.MatchString(trimmed) {
		return nil, orcherr.NewSqlSafetyError("failed to parse SQL as a single SELECT statement", fmt.Errorf("statement is not a SELECT"))
	}

	res := &Result{Valid: true}

	tables := map[string]bool{}
	collectTables(stmt.From.X, tables)
	for _, j := range stmt.Joins {
		collectTables(j.With, tables)
	}
	for t := range tables {
		res.ReferencedTables = append(res.ReferencedTables, t)
	}

	if len(cfg.AllowedTables) == 0 {
		telemetry.Infof("sqlgate", "allowedTables is empty, running permissive (local-development concession)")
	} else {
		for t := range tables {
			if !allowed(t, cfg.AllowedTables) {
				res.Errors = append(res.Errors, fmt.Sprintf("table %q is not in the allowlist", t))
			}
		}
	}

	lowerSql := strings.ToLower(trimmed)
	for _, fn := range cfg.ForbiddenFunctions {
		if fn == "" {
			continue
		}
		if strings.Contains(lowerSql, strings.ToLower(fn)) {
			res.Errors = append(res.Errors, fmt.Sprintf("forbidden function %q referenced", fn))
		}
	}

	sanitized, effLimit := injectLimit(trimmed, stmt.Limit, cfg.MaxRows)
	res.SanitizedSql = sanitized
	res.EffectiveLimit = effLimit

	res.Valid = len(res.Errors) == 0
	return res, nil
}

// countStatements counts top-level statements separated by ';', ignoring
// separators inside single/double-quoted string literals.
func countStatements(sql string) int {
	count := 0
	inSingle, inDouble := false, false
	sawContent := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == ';' && !inSingle && !inDouble:
			if sawContent {
				count++
			}
			sawContent = false
			continue
		}
		if !isSpace(c) {
			sawContent = true
		}
	}
	if sawContent {
		count++
	}
	if count == 0 {
		return 0
	}
	return count
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// collectTables walks a FROM/JOIN source, recursing into subqueries, and
// records every base table name it finds. A table reference is an
// *expr.Ident (bare name) or *expr.Selector (schema-qualified name); a
// subquery arrives wrapped in *expr.Raw with the nested *query.Select in X.
func collectTables(source node.Node, tables map[string]bool) {
	switch v := source.(type) {
	case nil:
		return
	case *expr.Raw:
		if nested, ok := v.X.(*query.Select); ok {
			collectTables(nested.From.X, tables)
			for _, j := range nested.Joins {
				collectTables(j.With, tables)
			}
		}
	case *query.Select:
		if v == nil {
			return
		}
		collectTables(v.From.X, tables)
		for _, j := range v.Joins {
			collectTables(j.With, tables)
		}
	default:
		if ident := expr.Identity(source); ident != nil {
			if name := sqlparser.Stringify(ident); name != "" {
				tables[name] = true
			}
		}
	}
}

// injectLimit enforces the LIMIT rewriting rules: inject a trailing LIMIT
// when absent, cap a literal LIMIT at maxRows, and append a bounding LIMIT
// when the parsed clause is non-literal (kept, but no longer trusted alone).
func injectLimit(sql string, parsed *expr.Literal, maxRows int) (string, int) {
	if parsed != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(parsed.Value)); err == nil && n >= 0 {
			effective := n
			if effective > maxRows {
				effective = maxRows
			}
			if trailingLimitRe.MatchString(sql) {
				return trailingLimitRe.ReplaceAllString(sql, fmt.Sprintf("LIMIT %d", effective)), effective
			}
			// Non-literal or unmatched textual LIMIT: bound it with a trailing clause.
			return sql + " LIMIT " + strconv.Itoa(effective), effective
		}
	}

	if anyTrailingLimitRe.MatchString(sql) {
		// A LIMIT clause exists but wasn't parsed as a literal integer
		// (e.g. a bound parameter); treat as absent and append.
		return sql + " LIMIT " + strconv.Itoa(maxRows), maxRows
	}

	return sql + " LIMIT " + strconv.Itoa(maxRows), maxRows
}
