package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Contract errors (CONTRACT-001 to CONTRACT-099)
	ErrCodeContractNotFound    ErrorCode = "CONTRACT-001"
	ErrCodeContractInvalid     ErrorCode = "CONTRACT-002"
	ErrCodeContractDuplicateOp ErrorCode = "CONTRACT-003"

	// PRD errors (PRD-001 to PRD-099)
	ErrCodePRDNotFound ErrorCode = "PRD-001"
	ErrCodePRDEmpty    ErrorCode = "PRD-002"

	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodePlanNotFound        ErrorCode = "PLAN-001"
	ErrCodePlanInvalid         ErrorCode = "PLAN-002"
	ErrCodePlanCyclicDep       ErrorCode = "PLAN-005"
	ErrCodePlanCoverageMissing ErrorCode = "PLAN-006"
	ErrCodePlanBudgetViolation ErrorCode = "PLAN-007"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid    ErrorCode = "CONFIG-001"
	ErrCodeConfigLoad       ErrorCode = "CONFIG-002"
	ErrCodeConfigDegenerate ErrorCode = "CONFIG-003"

	// Artifact store errors (STORE-001 to STORE-099)
	ErrCodeStoreUnavailable ErrorCode = "STORE-001"
	ErrCodeStoreWriteFailed ErrorCode = "STORE-002"
	ErrCodeStoreNotFound    ErrorCode = "STORE-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

const docsBase = "https://github.com/felixgeelhaar/taskgraph"

// TaskgraphError represents an enhanced error with code, suggestions, and documentation
type TaskgraphError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *TaskgraphError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", suggestion)
		}
	}

	if e.DocsURL != "" {
		fmt.Fprintf(&b, "\n\nDocumentation: %s", e.DocsURL)
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TaskgraphError) Unwrap() error {
	return e.Cause
}

// New creates a new TaskgraphError
func New(code ErrorCode, message string) *TaskgraphError {
	return &TaskgraphError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TaskgraphError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TaskgraphError {
	return &TaskgraphError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *TaskgraphError) WithSuggestion(suggestion string) *TaskgraphError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *TaskgraphError) WithSuggestions(suggestions ...string) *TaskgraphError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *TaskgraphError) WithDocs(url string) *TaskgraphError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first TaskgraphError in err's chain, or "" if none
func CodeOf(err error) ErrorCode {
	var tgErr *TaskgraphError
	if errors.As(err, &tgErr) {
		return tgErr.Code
	}
	return ""
}

// HasCode reports whether err's chain carries the given code
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewContractInvalidError creates an OpenAPI validation error
func NewContractInvalidError(path string, cause error) *TaskgraphError {
	return Wrap(ErrCodeContractInvalid, fmt.Sprintf("invalid API contract: %s", path), cause).
		WithSuggestion("Validate the document against the OpenAPI 3 schema").
		WithSuggestion("Check that every $ref resolves to a component").
		WithDocs(docsBase + "#api-contracts")
}

// NewDuplicateOperationError creates an error for repeated operationIds
func NewDuplicateOperationError(operationID string) *TaskgraphError {
	return New(ErrCodeContractDuplicateOp, fmt.Sprintf("duplicate operationId: %s", operationID)).
		WithSuggestion("Give every operation a unique operationId")
}

// NewCoverageMissingError creates the fatal error raised when contract operations are unreferenced
func NewCoverageMissingError(missing []string) *TaskgraphError {
	return New(ErrCodePlanCoverageMissing, fmt.Sprintf("missing contract coverage: %s", strings.Join(missing, ", "))).
		WithSuggestion("Every contract operation must be referenced by at least one plan node").
		WithSuggestion("Check that operations carry tags or that the test phase is enabled").
		WithDocs(docsBase + "#coverage")
}

// NewBudgetViolationError creates an error listing nodes that still exceed the token capacity
func NewBudgetViolationError(capacity int, violations []int) *TaskgraphError {
	return New(ErrCodePlanBudgetViolation, fmt.Sprintf("%d node(s) exceed token capacity %d: %v", len(violations), capacity, violations)).
		WithSuggestion("Raise tuning.default_model_window or lower tuning.token_budget_floor").
		WithSuggestion("Split oversized tasks into smaller steps in the PRD").
		WithDocs(docsBase + "#token-budgets")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *TaskgraphError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Check .taskgraph/config.yaml and PLANNER_* environment variables").
		WithDocs(docsBase + "#configuration")
}

// NewPlanCycleError creates an error for dependency cycles in a plan graph
func NewPlanCycleError(path string) *TaskgraphError {
	return New(ErrCodePlanCyclicDep, fmt.Sprintf("circular dependency detected: %s", path)).
		WithSuggestion("Regenerate the plan with 'taskgraph plan create'")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *TaskgraphError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *TaskgraphError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
