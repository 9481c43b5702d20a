// Package output handles file naming and writing for rendered guides.
// Guide names come from user uploads, so they are sanitized into safe
// flat filenames before touching the filesystem.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// unsafeChars matches every character that may not appear in an output
// filename. Letters and digits in any script are kept so guide names
// like "Déjà Vu" survive sanitization.
var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_-]`)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores one rendered guide under a sanitized version of its
// name plus the renderer's extension, and returns the full path.
func (w *Writer) Write(name string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, SafeName(name)+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// SafeName replaces every character outside letters, digits,
// underscore and hyphen with an underscore.
func SafeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}
