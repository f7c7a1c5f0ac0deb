package verifier

import (
	"fmt"

	"github.com/groundedquery/core/genai/orcherr"
	"github.com/groundedquery/core/genai/toolruntime"
)

// Verify is the pure construction function described by the Verifier's
// contract: it never mutates results and never performs I/O. userMessage is
// accepted for parity with the contract but is not inspected; grounding here
// is structural, not linguistic.
//
// Approved is coverage alone: at least one tool execution must have
// succeeded. A per-action failure, or a success that came back empty,
// surfaces as its own unsupported EvidenceCheck (and, for failures, a
// suggested action) but never by itself flips Approved to false — a
// compound plan where some actions failed is still answerable from the
// actions that didn't, as long as coverage is met.
func Verify(results []*toolruntime.ExecutionResult, userMessage string) *Report {
	report := &Report{}

	coverage := EvidenceCheck{Claim: "at least one tool execution succeeded"}
	coverage.Supported = anySucceeded(results)
	report.Checks = append(report.Checks, coverage)

	for _, r := range results {
		switch r.ToolCall.Status {
		case toolruntime.StatusSuccess:
			report.Checks = append(report.Checks, successCheck(r))
		case toolruntime.StatusError:
			check := failureCheck(r)
			report.Checks = append(report.Checks, check)
			report.SuggestedActions = append(report.SuggestedActions, check.SuggestedActn)
		}
	}

	report.Approved = coverage.Supported
	if !report.Approved {
		report.Summary = summarize(report.Checks)
	}
	return report
}

// VerifyOrThrow runs Verify and additionally applies the fatal shortcut:
// when every attempted tool failed (and at least one was attempted), it
// returns a VERIFICATION_ERROR instead of a non-fatal report, terminating
// the run before the Answer Generator.
func VerifyOrThrow(results []*toolruntime.ExecutionResult, userMessage string) (*Report, error) {
	report := Verify(results, userMessage)
	if allFailed(results) {
		return nil, orcherr.NewVerificationError(report.Summary)
	}
	return report, nil
}

func anySucceeded(results []*toolruntime.ExecutionResult) bool {
	for _, r := range results {
		if r.ToolCall.Status == toolruntime.StatusSuccess && r.ToolResult != nil {
			return true
		}
	}
	return false
}

func allFailed(results []*toolruntime.ExecutionResult) bool {
	attempted := 0
	for _, r := range results {
		switch r.ToolCall.Status {
		case toolruntime.StatusSuccess:
			return false
		case toolruntime.StatusError:
			attempted++
		}
	}
	return attempted > 0
}

func successCheck(r *toolruntime.ExecutionResult) EvidenceCheck {
	claim := fmt.Sprintf("tool %s returned data", r.ToolCall.ToolName)
	supported := r.ToolResult.RowCount > 0 || isNonEmptyData(r.ToolResult.Data)
	check := EvidenceCheck{Claim: claim, Supported: supported}
	if supported {
		check.EvidenceId = r.ToolResult.ID
		check.EvidenceType = EvidenceTypeToolResult
	} else {
		check.Reason = "tool succeeded but returned no rows and no data"
	}
	return check
}

func failureCheck(r *toolruntime.ExecutionResult) EvidenceCheck {
	return EvidenceCheck{
		Claim:         fmt.Sprintf("tool %s executed successfully", r.ToolCall.ToolName),
		Supported:     false,
		Reason:        r.ToolCall.ErrorMessage,
		SuggestedActn: fmt.Sprintf("retry %s with adjusted arguments or a different tool", r.ToolCall.ToolName),
	}
}

// isNonEmptyData reports whether data, after unwrapping the two core result
// shapes, carries anything a caller could treat as evidence.
func isNonEmptyData(data interface{}) bool {
	switch v := data.(type) {
	case nil:
		return false
	case *toolruntime.SqlQueryResult:
		return v != nil && len(v.Rows) > 0
	case *toolruntime.RagSearchResult:
		return v != nil && len(v.Chunks) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}

func summarize(checks []EvidenceCheck) string {
	failed := 0
	for _, c := range checks {
		if !c.Supported {
			failed++
		}
	}
	return fmt.Sprintf("%d of %d evidence checks unsupported", failed, len(checks))
}
