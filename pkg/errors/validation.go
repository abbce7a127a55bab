package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePositive validates that a dimension is strictly positive and finite.
// The name is included in the error message for context (e.g. "wall thickness").
//
// Construction dimensions are millimetres; a zero or negative value can never
// produce coherent geometry, so these fail before any geometry is built.
func ValidatePositive(name string, value float64) error {
	if err := ValidateFinite(name, value); err != nil {
		return err
	}
	if value <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %g", name, value)
	}
	return nil
}

// ValidateNonNegative validates that a dimension is zero or greater and finite.
func ValidateNonNegative(name string, value float64) error {
	if err := ValidateFinite(name, value); err != nil {
		return err
	}
	if value < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %g", name, value)
	}
	return nil
}

// ValidateFinite validates that a value is a real number (not NaN or ±Inf).
func ValidateFinite(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %g", name, value)
	}
	return nil
}

// ValidateRange validates that min <= max for a configured interval.
// Both bounds must already be individually validated.
func ValidateRange(name string, min, max float64) error {
	if min > max {
		return New(ErrCodeInvalidConfig, "%s: minimum %g exceeds maximum %g", name, min, max)
	}
	return nil
}

// ValidateID validates an entity identifier for safety and correctness.
// Identifiers come from project files and HTTP requests, so the rules are
// intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "%s id too long (max 256 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "%s id contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateProjectFilename validates a project filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateProjectFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidProject, "project filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidProject, "project filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidProject, "project filename cannot be a hidden file")
	}

	return nil
}

// materialIDRegex matches well-formed material identifiers.
var materialIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateMaterialID validates a material identifier.
func ValidateMaterialID(id string) error {
	if err := ValidateID("material", id); err != nil {
		return err
	}

	if !materialIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid material id: %q", id)
	}

	return nil
}

// assemblyIDRegex matches well-formed assembly identifiers.
var assemblyIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateAssemblyID validates a wall assembly identifier.
func ValidateAssemblyID(id string) error {
	if err := ValidateID("assembly", id); err != nil {
		return err
	}

	if !assemblyIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid assembly id: %q", id)
	}

	return nil
}
