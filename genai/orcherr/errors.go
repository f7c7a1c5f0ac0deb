// Package orcherr carries the orchestration core's error taxonomy: one small
// typed struct per stage-level failure, each implementing error and stamped
// with a stable machine code and HTTP-ish status for callers that want one.
package orcherr

import "fmt"

// Code identifies a stage-level failure class.
type Code string

const (
	CodePlannerError    Code = "PLANNER_ERROR"
	CodePolicyBlocked   Code = "POLICY_BLOCKED"
	CodeSqlSafetyError  Code = "SQL_SAFETY_ERROR"
	CodeToolExecution   Code = "TOOL_EXECUTION_ERROR"
	CodeVerification    Code = "VERIFICATION_ERROR"
	CodeSourceNotFound  Code = "SOURCE_NOT_FOUND"
)

var statusByCode = map[Code]int{
	CodePlannerError:   422,
	CodePolicyBlocked:  403,
	CodeSqlSafetyError: 403,
	CodeToolExecution:  500,
	CodeVerification:   422,
	CodeSourceNotFound: 404,
}

// StageError is the common shape for every error the pipeline raises out of
// a stage. Detail carries any structured context (e.g. validation issues).
type StageError struct {
	ErrCode Code
	Message string
	Detail  map[string]interface{}
	Cause   error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *StageError) Unwrap() error { return e.Cause }

// HTTPStatus returns the stable status code associated with the error's
// taxonomy entry.
func (e *StageError) HTTPStatus() int { return statusByCode[e.ErrCode] }

// NewPlannerError reports that the planner failed after exhausting retries.
func NewPlannerError(lastIssues []string, cause error) *StageError {
	return &StageError{
		ErrCode: CodePlannerError,
		Message: "planner failed to produce a valid plan after retries",
		Detail:  map[string]interface{}{"issues": lastIssues},
		Cause:   cause,
	}
}

// NewPolicyBlockedError reports that the Tool Gate rejected the whole plan.
func NewPolicyBlockedError(reason string) *StageError {
	return &StageError{ErrCode: CodePolicyBlocked, Message: reason}
}

// NewSqlSafetyError reports a SQL parse failure or policy violation.
func NewSqlSafetyError(reason string, cause error) *StageError {
	return &StageError{ErrCode: CodeSqlSafetyError, Message: reason, Cause: cause}
}

// NewToolExecutionError reports a connector failure, unknown tool, or timeout.
func NewToolExecutionError(tool string, cause error) *StageError {
	return &StageError{
		ErrCode: CodeToolExecution,
		Message: fmt.Sprintf("tool %q execution failed", tool),
		Detail:  map[string]interface{}{"tool": tool},
		Cause:   cause,
	}
}

// NewVerificationError reports that every attempted tool failed.
func NewVerificationError(summary string) *StageError {
	return &StageError{ErrCode: CodeVerification, Message: summary}
}

// NewSourceNotFoundError reports a referenced source that is unavailable.
func NewSourceNotFoundError(sourceID string) *StageError {
	return &StageError{
		ErrCode: CodeSourceNotFound,
		Message: fmt.Sprintf("source %q not found", sourceID),
		Detail:  map[string]interface{}{"sourceId": sourceID},
	}
}
