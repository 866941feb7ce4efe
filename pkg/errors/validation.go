package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateMaxLadderLength checks the ladder length cap.
func ValidateMaxLadderLength(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidConfig, "max_ladder_length must be at least 1, got %d", n)
	}
	return nil
}

var logLevels = []string{"debug", "info", "warn", "error"}

// ValidateLogLevel checks a log level name. Matching is case-insensitive.
func ValidateLogLevel(level string) error {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "unknown log level %q (want one of %s)", level, strings.Join(logLevels, ", "))
}

var renderFormats = []string{"dot", "svg", "txt", "json"}

// ValidateRenderFormat checks an output format name.
func ValidateRenderFormat(format string) error {
	for _, f := range renderFormats {
		if format == f {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(renderFormats, ", "))
}
