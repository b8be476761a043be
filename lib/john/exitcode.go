package john

import (
	"errors"
	"os/exec"
)

// john exit codes. john reports every fatal condition with status 1; a negative code means the
// process did not exit on its own (killed by a signal, usually our own timeout).
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeSignal  = -1
)

// ExitCodeInfo contains information about a john exit code.
type ExitCodeInfo struct {
	Category  ErrorCategory
	Retryable bool
	Status    string
	ExitCode  int
}

// ClassifyExitCode classifies a john exit code.
func ClassifyExitCode(exitCode int) ExitCodeInfo {
	switch {
	case exitCode == ExitCodeSuccess:
		return ExitCodeInfo{Category: ErrorCategoryInfo, Status: "completed", ExitCode: exitCode}
	case exitCode == ExitCodeError:
		return ExitCodeInfo{Category: ErrorCategoryUnknown, Status: "error", ExitCode: exitCode}
	case exitCode < 0:
		return ExitCodeInfo{Category: ErrorCategoryRetryable, Retryable: true, Status: "killed", ExitCode: exitCode}
	default:
		return ExitCodeInfo{Category: ErrorCategoryUnknown, Status: "unknown", ExitCode: exitCode}
	}
}

// IsNormalCompletion returns true if john exited on its own without reporting an error.
func IsNormalCompletion(exitCode int) bool {
	return exitCode == ExitCodeSuccess
}

// exitCodeFromError extracts the exit status from the error returned by exec.Cmd.Wait.
// It returns 0 for a nil error and ExitCodeSignal when the error carries no status.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return ExitCodeSignal
}
