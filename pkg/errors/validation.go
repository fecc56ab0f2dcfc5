package errors

import (
	"strings"
	"unicode"
)

// ValidateVariableName validates an attribute or class name read from a data file.
//
// The rules are conservative:
//   - No empty names
//   - No control characters (tabs and newlines would corrupt the column layout)
//   - Maximum length of 256 characters
func ValidateVariableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "variable name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "variable name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "variable name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateOutputPath validates a path an artifact is written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidInput, "output path %q names a directory", path)
	}

	return nil
}

// ValidateDimensions checks an image size. Zero means "derive from content".
func ValidateDimensions(width, height int) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "image dimensions must be non-negative, got %dx%d", width, height)
	}
	const maxSide = 1 << 15
	if width > maxSide || height > maxSide {
		return New(ErrCodeInvalidInput, "image dimensions too large (max %d per side)", maxSide)
	}
	return nil
}
