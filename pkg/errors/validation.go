package errors

import (
	"strings"
	"unicode"
)

// ValidateBoardName validates a board name for safety and correctness.
// It rejects names that could be used for path traversal since board names
// become file names in the boards directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No hidden files (leading dot)
//   - Maximum length of 128 characters
func ValidateBoardName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "board name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "board name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "board name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "board name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "board name cannot contain path traversal sequences (..)")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "board name cannot be a hidden file")
	}

	return nil
}

// imageExtensions is the set of file extensions the decoder understands.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ValidateImagePath validates a path handed to the image loader.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be a supported image format
func ValidateImagePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidImage, "image path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidImage, "image path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidImage, "image path contains invalid characters")
		}
	}

	dot := strings.LastIndex(path, ".")
	if dot < 0 || !imageExtensions[strings.ToLower(path[dot:])] {
		return New(ErrCodeInvalidImage, "unsupported image format: %q", path)
	}

	return nil
}

// ValidateFormat validates a render output format name.
func ValidateFormat(format string, valid map[string]bool) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !valid[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	return nil
}
