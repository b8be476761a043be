package john

import (
	"regexp"
	"strings"
)

// ErrorCategory represents the classification of a john output line.
type ErrorCategory int

const (
	// ErrorCategoryUnknown is for unrecognized lines.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryInfo is for informational messages (not actual errors).
	ErrorCategoryInfo
	// ErrorCategoryWarning is for warnings that don't stop operation.
	ErrorCategoryWarning
	// ErrorCategoryRetryable is for transient errors that may succeed on retry.
	ErrorCategoryRetryable
	// ErrorCategoryHashFormat is for hashes john cannot load (permanent).
	ErrorCategoryHashFormat
	// ErrorCategoryFileAccess is for missing or unreadable files (permanent).
	ErrorCategoryFileAccess
	// ErrorCategoryConfiguration is for invalid options (permanent).
	ErrorCategoryConfiguration
)

// String returns the string representation of an ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryUnknown:
		return "unknown"
	case ErrorCategoryInfo:
		return "info"
	case ErrorCategoryWarning:
		return "warning"
	case ErrorCategoryRetryable:
		return "retryable"
	case ErrorCategoryHashFormat:
		return "hash_format"
	case ErrorCategoryFileAccess:
		return "file_access"
	case ErrorCategoryConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// ErrorInfo contains information about a classified output line.
type ErrorInfo struct {
	Category  ErrorCategory
	Retryable bool
	Message   string
}

type errorPattern struct {
	pattern   *regexp.Regexp
	category  ErrorCategory
	retryable bool
}

// Matching is performed in slice order and the first matching pattern is used,
// so more specific patterns must appear before more general ones.
//
//nolint:gochecknoglobals // Patterns are intentionally global for performance
var errorPatterns = []errorPattern{
	// Hash format errors
	{regexp.MustCompile(`(?i)No password hashes loaded`), ErrorCategoryHashFormat, false},
	{regexp.MustCompile(`(?i)No password hashes left to crack`), ErrorCategoryInfo, false},
	{regexp.MustCompile(`(?i)Unknown ciphertext format name requested`), ErrorCategoryConfiguration, false},

	// File access errors
	{regexp.MustCompile(`(?i)fopen: .*: No such file or directory`), ErrorCategoryFileAccess, false},
	{regexp.MustCompile(`(?i)Can't open`), ErrorCategoryFileAccess, false},
	{regexp.MustCompile(`(?i)Permission denied`), ErrorCategoryFileAccess, false},

	// Configuration errors
	{regexp.MustCompile(`(?i)Unknown option`), ErrorCategoryConfiguration, false},
	{regexp.MustCompile(`(?i)Invalid options combination`), ErrorCategoryConfiguration, false},
	{regexp.MustCompile(`(?i)Invalid rule`), ErrorCategoryConfiguration, false},
	{regexp.MustCompile(`(?i)No such mode`), ErrorCategoryConfiguration, false},

	// Transient
	{regexp.MustCompile(`(?i)Crash recovery file is locked`), ErrorCategoryRetryable, true},
	{regexp.MustCompile(`(?i)Session aborted`), ErrorCategoryRetryable, true},

	// Info
	{regexp.MustCompile(`^Warning: detected hash type`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`^Warning: only \d+ candidates? (buffered|left)`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`(?i)^Loaded \d+ password hash`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`(?i)^Session (completed|stopped)`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`(?i)^Proceeding with`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`(?i)^Press 'q' or Ctrl-C`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`(?i)^Using default input encoding`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`(?i)^Will run \d+ OpenMP threads`), ErrorCategoryInfo, true},
	{regexp.MustCompile(`^Warning:`), ErrorCategoryWarning, true},
}

// ClassifyStderr classifies an output line from john and returns error information.
func ClassifyStderr(line string) ErrorInfo {
	for _, p := range errorPatterns {
		if p.pattern.MatchString(line) {
			return ErrorInfo{
				Category:  p.category,
				Retryable: p.retryable,
				Message:   line,
			}
		}
	}

	if strings.HasPrefix(line, "Error") || strings.HasPrefix(line, "FATAL") {
		return ErrorInfo{
			Category:  ErrorCategoryUnknown,
			Retryable: false,
			Message:   line,
		}
	}

	// john reports status and progress on stderr too, so unrecognized lines are not treated as failures.
	return ErrorInfo{
		Category:  ErrorCategoryUnknown,
		Retryable: true,
		Message:   line,
	}
}

// FirstFailure returns the first line of output classified as a permanent failure.
func FirstFailure(output string) (ErrorInfo, bool) {
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		info := ClassifyStderr(line)
		switch info.Category {
		case ErrorCategoryHashFormat, ErrorCategoryFileAccess, ErrorCategoryConfiguration:
			return info, true
		case ErrorCategoryUnknown:
			if !info.Retryable {
				return info, true
			}
		case ErrorCategoryInfo, ErrorCategoryWarning, ErrorCategoryRetryable:
		}
	}

	return ErrorInfo{}, false
}
