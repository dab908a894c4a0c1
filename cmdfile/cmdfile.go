// Package cmdfile generates the UECommandLine.txt artifact that configures
// the instrumented app's next run.
package cmdfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasttemplate"

	"github.com/rgupta/uaftctl/constants"
)

// Render expands the {{host}} placeholder in a trace-args template.
// Templates without the placeholder pass through unchanged.
func Render(template, host string) string {
	return fasttemplate.ExecuteString(template, "{{", "}}", map[string]any{
		"host": host,
	})
}

// DefaultPath is the fixed well-known location the command file is written
// to before each push.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, constants.CommandFileName), nil
}

// Write stores content at path, replacing whatever was there. The content
// lands in a uniquely named temp file first and is renamed into place.
func Write(path, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("refusing to write an empty command file, enter trace arguments first")
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s", filepath.Base(path), uuid.New().String()))
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write command file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace command file: %w", err)
	}
	return nil
}
