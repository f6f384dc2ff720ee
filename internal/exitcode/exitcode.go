package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// CoverageMissing indicates contract operations no plan node references
	CoverageMissing = 3

	// BudgetViolation indicates nodes that still exceed the token capacity
	BudgetViolation = 4

	// ConfigError indicates invalid or unreadable configuration
	ConfigError = 5

	// InputError indicates a missing or invalid contract, PRD or plan file
	InputError = 6

	// Interrupted indicates the run was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code. Coded errors are mapped
// by category; cobra's usage errors are recognized by message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var tgErr *errors.TaskgraphError
	if stderrors.As(err, &tgErr) {
		code := string(tgErr.Code)
		switch {
		case tgErr.Code == errors.ErrCodePlanCoverageMissing:
			return CoverageMissing
		case tgErr.Code == errors.ErrCodePlanBudgetViolation:
			return BudgetViolation
		case strings.HasPrefix(code, "CONFIG-"):
			return ConfigError
		case strings.HasPrefix(code, "CONTRACT-"), strings.HasPrefix(code, "PRD-"),
			strings.HasPrefix(code, "PLAN-"), strings.HasPrefix(code, "IO-"):
			return InputError
		default:
			return GeneralError
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, marker := range []string{"unknown flag", "invalid argument", "unknown command", "required flag", "accepts ", "unknown shorthand flag"} {
		if strings.Contains(errMsg, marker) {
			return UsageError
		}
	}
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case CoverageMissing:
		return "Contract operations not covered by the plan"
	case BudgetViolation:
		return "Plan nodes exceed the token budget"
	case ConfigError:
		return "Configuration error"
	case InputError:
		return "Invalid or missing input file"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
