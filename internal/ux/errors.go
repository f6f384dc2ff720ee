package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

// ErrorWithSuggestion wraps an error with a recovery hint
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a hint to errors that do not carry one yet.
// Coded errors already print their own suggestions and pass through.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var tgErr *errors.TaskgraphError
	if stderrors.As(err, &tgErr) {
		return err
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "no such file or directory") {
		switch {
		case strings.Contains(errMsg, "plan.json"):
			return NewErrorWithSuggestion(err,
				"Generate a plan by running 'taskgraph plan create --prd <file> --contract <file>'")
		case strings.Contains(errMsg, "config.yaml"):
			return NewErrorWithSuggestion(err,
				"Drop the --config flag to use defaults, or create .taskgraph/config.yaml")
		}
	}

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions on the input files and the .taskgraph directory")
	}

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
		return NewErrorWithSuggestion(err,
			"Check storage.s3.endpoint (PLANNER_STORAGE__S3__ENDPOINT) or unset storage.s3.bucket to store artifacts locally")
	}

	if strings.Contains(errMsg, "failed to") {
		return NewErrorWithSuggestion(err,
			fmt.Sprintf("Next steps: %s", SuggestNextSteps()))
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
