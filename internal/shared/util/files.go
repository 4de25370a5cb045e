package util

import (
	"os"
	"path/filepath"
)

// StdoutPath is the output path that stands for standard output.
const StdoutPath = "-"

// WriteOutput writes content to path, creating missing parent directories.
// StdoutPath writes to os.Stdout instead.
func WriteOutput(path, content string) error {
	if path == StdoutPath {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
