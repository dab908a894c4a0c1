package uaft

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecRunnerMissingExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-tool")

	_, err := ExecRunner{}.Run(context.Background(), []string{path, "devices"}, "")
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("expected LaunchError, got %v", err)
	}
	if launchErr.Path != path {
		t.Errorf("expected attempted path %q, got %q", path, launchErr.Path)
	}
	if !strings.Contains(launchErr.Error(), path) {
		t.Errorf("expected message to include the attempted path, got %q", launchErr.Error())
	}
}

func TestExecRunnerEmptyArgv(t *testing.T) {
	if _, err := (ExecRunner{}).Run(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for an empty argument vector")
	}
}
