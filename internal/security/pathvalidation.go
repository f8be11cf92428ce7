// Package security contains the path-safety checks guarding the image
// gallery endpoints, which serve files named by request path segments.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks if a file path is within a safe
// directory. It prevents path traversal by ensuring the cleaned, absolute
// path does not escape the directory.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	relPath, err := filepath.Rel(absSafeDir, absPath)
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}

	return nil
}

// ValidateImageName checks a request-supplied image filename: it must be a
// bare name (no separators or traversal components) with a .jpg extension,
// matching what the capture pipeline writes.
func ValidateImageName(name string) error {
	if name == "" {
		return fmt.Errorf("empty image name")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("image name must not contain path separators: %q", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("image name must not contain traversal components: %q", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		return fmt.Errorf("image name must end in .jpg: %q", name)
	}
	return nil
}
