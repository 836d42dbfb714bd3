package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxColorLength bounds color specs; the longest legitimate CSS form
// ("rgba(255, 255, 255, 0.125)") is well under it.
const maxColorLength = 64

// ValidateColor validates a color value before it is written into an SVG
// attribute. Color specs are opaque to platemap (named colors, hex, rgb(),
// rgba() are all accepted) but must not be able to escape the attribute.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if len(color) > maxColorLength {
		return New(ErrCodeInvalidColor, "color too long (max %d characters)", maxColorLength)
	}
	for _, r := range color {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColor, "color contains control characters")
		}
	}
	if strings.ContainsAny(color, `"'<>&;{}`) {
		return New(ErrCodeInvalidColor, "color contains invalid characters: %q", color)
	}
	return nil
}

// plateExtensions lists the file types accepted as plate definitions.
var plateExtensions = map[string]bool{
	".json": true,
	".toml": true,
}

// ValidatePlateFilename checks that a plate definition has a supported extension.
func ValidatePlateFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "plate file path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !plateExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported plate file %q (must be .json or .toml)", filepath.Base(path))
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path.
// Output files may live anywhere the user can write, but the path must not
// contain null bytes or be a bare directory reference.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "output path contains null bytes")
	}
	base := filepath.Base(path)
	if base == "." || base == ".." || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}
	return nil
}
