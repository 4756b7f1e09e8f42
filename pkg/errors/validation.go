package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// DiagramExtensions lists the file suffixes a diagram document may use.
// Longer suffixes come first so ".drawio.svg" wins over ".svg".
var DiagramExtensions = []string{".drawio.svg", ".drawio", ".svg", ".xml"}

// ValidateDiagramPath validates the target path of a diagram document.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must end in one of [DiagramExtensions]
//
// Absolute paths are allowed; the transports resolve relative paths against
// the configured diagrams directory before calling into the service.
func ValidateDiagramPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	lower := strings.ToLower(path)
	for _, ext := range DiagramExtensions {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "path %q must end in one of %s", path, strings.Join(DiagramExtensions, ", "))
}

// reservedIDs are the cell ids of the draw.io model root and default layer,
// plus the boundary spelling of the root parent.
var reservedIDs = map[string]bool{"0": true, "1": true, "root": true}

// edgeSeparator mirrors diagram.EdgeSeparator. Node ids containing it would
// make derived edge ids ambiguous: a-2 + b and a + 2-b both give a-2-2-b.
const edgeSeparator = "-2-"

// idRegex rejects whitespace-only and control-character ids while allowing
// the punctuation people put in diagram ids (dots, dashes, colons, slashes).
var idRegex = regexp.MustCompile(`^[^\s\x00-\x1f][^\x00-\x1f]*$`)

// ValidateID validates a caller-assigned node id.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "id too long (max 256 characters)")
	}
	if reservedIDs[id] {
		return New(ErrCodeInvalidInput, "id %q is reserved", id)
	}
	if strings.Contains(id, edgeSeparator) {
		return New(ErrCodeInvalidInput, "id %q must not contain %q, which joins edge ids", id, edgeSeparator)
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "id %q contains invalid characters", id)
	}
	return nil
}
