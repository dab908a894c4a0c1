package uaft

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// fakeRunner returns a canned result and records the argv it was given.
type fakeRunner struct {
	res  Result
	err  error
	argv []string
}

func (f *fakeRunner) Run(_ context.Context, argv []string, _ string) (Result, error) {
	f.argv = argv
	return f.res, f.err
}

func newTestTool(t *testing.T, runner Runner) *Tool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "UnrealAndroidFileTool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub tool: %v", err)
	}
	tool, err := New(path, runner)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tool
}

func TestNewRejectsMissingPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for a missing executable path")
	}
}

func TestNewRejectsDirectory(t *testing.T) {
	if _, err := New(t.TempDir(), nil); err == nil {
		t.Fatal("expected error for a directory path")
	}
}

func TestDevicesParsing(t *testing.T) {
	fake := &fakeRunner{res: Result{Stdout: "List of devices attached\n@ABC123\nDEF456 offline\ndevices\n\n"}}
	tool := newTestTool(t, fake)

	got, err := tool.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if want := []string{"ABC123"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if want := []string{tool.Path(), "devices"}; !reflect.DeepEqual(fake.argv, want) {
		t.Errorf("expected argv %v, got %v", want, fake.argv)
	}
}

func TestDevicesToolErrorPrefersStderr(t *testing.T) {
	fake := &fakeRunner{res: Result{ExitCode: 1, Stdout: "noise", Stderr: "no adb server\n"}}
	tool := newTestTool(t, fake)

	_, err := tool.Devices(context.Background())
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.Message != "no adb server" {
		t.Errorf("expected stderr message, got %q", toolErr.Message)
	}
}

func TestDevicesToolErrorFallsBackToStdout(t *testing.T) {
	fake := &fakeRunner{res: Result{ExitCode: 2, Stdout: "only stdout here\n"}}
	tool := newTestTool(t, fake)

	_, err := tool.Devices(context.Background())
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.Message != "only stdout here" {
		t.Errorf("expected stdout fallback, got %q", toolErr.Message)
	}
}

func TestPackagesArgsAndParsing(t *testing.T) {
	fake := &fakeRunner{res: Result{Stdout: "com.company.game\nnot-a-package\n\n"}}
	tool := newTestTool(t, fake)

	got, err := tool.Packages(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("Packages: %v", err)
	}
	if want := []string{"com.company.game"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if want := []string{tool.Path(), "-s", "ABC123", "packages"}; !reflect.DeepEqual(fake.argv, want) {
		t.Errorf("expected argv %v, got %v", want, fake.argv)
	}
}

func TestPackagesWithoutSerial(t *testing.T) {
	fake := &fakeRunner{}
	tool := newTestTool(t, fake)

	if _, err := tool.Packages(context.Background(), ""); err != nil {
		t.Fatalf("Packages: %v", err)
	}
	if want := []string{tool.Path(), "packages"}; !reflect.DeepEqual(fake.argv, want) {
		t.Errorf("expected argv %v, got %v", want, fake.argv)
	}
}

func TestPushCommandFileArgs(t *testing.T) {
	fake := &fakeRunner{res: Result{Stdout: "pushed 1 file\n"}}
	tool := newTestTool(t, fake)

	params := ConnParams{Serial: "ABC123", IP: "10.0.0.2", Port: "57099", Package: "com.company.game", Token: "tok"}
	out, err := tool.PushCommandFile(context.Background(), params, "/tmp/UECommandLine.txt")
	if err != nil {
		t.Fatalf("PushCommandFile: %v", err)
	}
	if out != "pushed 1 file\n" {
		t.Errorf("expected raw stdout back, got %q", out)
	}

	want := []string{tool.Path(), "-s", "ABC123", "-t", "57099", "-p", "com.company.game", "-k", "tok",
		"push", "/tmp/UECommandLine.txt", "^commandfile"}
	if !reflect.DeepEqual(fake.argv, want) {
		t.Errorf("expected argv %v, got %v", want, fake.argv)
	}
	if strings.Contains(strings.Join(fake.argv, " "), "-ip") {
		t.Error("IP flag leaked into argv despite serial being set")
	}
}

func TestListTracesMissingDirIsEmptyNotError(t *testing.T) {
	fake := &fakeRunner{res: Result{ExitCode: 1, Stderr: "no such directory\n"}}
	tool := newTestTool(t, fake)

	got, err := tool.ListTraces(context.Background(), ConnParams{Package: "com.company.game"})
	if err != nil {
		t.Fatalf("expected no error for missing trace dir, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty listing, got %v", got)
	}
}

func TestListTracesParsing(t *testing.T) {
	fake := &fakeRunner{res: Result{Stdout: "Profiling_001.trace\nnotes.txt\nRun2.utrace\n"}}
	tool := newTestTool(t, fake)

	got, err := tool.ListTraces(context.Background(), ConnParams{IP: "127.0.0.1", Package: "com.company.game"})
	if err != nil {
		t.Fatalf("ListTraces: %v", err)
	}
	if want := []string{"Profiling_001.trace", "Run2.utrace"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if want := []string{tool.Path(), "-ip", "127.0.0.1", "-p", "com.company.game", "ls", "-R", "^saved/Traces"}; !reflect.DeepEqual(fake.argv, want) {
		t.Errorf("expected argv %v, got %v", want, fake.argv)
	}
}

func TestPullTraceCreatesDestAndJoinsBaseName(t *testing.T) {
	fake := &fakeRunner{}
	tool := newTestTool(t, fake)
	dest := filepath.Join(t.TempDir(), "traces", "run1")

	local, err := tool.PullTrace(context.Background(), ConnParams{Serial: "ABC123"}, "sub/Profiling_001.utrace", dest)
	if err != nil {
		t.Fatalf("PullTrace: %v", err)
	}
	if want := filepath.Join(dest, "Profiling_001.utrace"); local != want {
		t.Errorf("expected local path %q, got %q", want, local)
	}
	if info, err := os.Stat(dest); err != nil || !info.IsDir() {
		t.Errorf("expected destination directory to exist, err=%v", err)
	}

	// Pulling again into the same directory must not error.
	if _, err := tool.PullTrace(context.Background(), ConnParams{Serial: "ABC123"}, "sub/Profiling_001.utrace", dest); err != nil {
		t.Fatalf("second PullTrace: %v", err)
	}

	want := []string{tool.Path(), "-s", "ABC123", "pull", "sub/Profiling_001.utrace", dest}
	if !reflect.DeepEqual(fake.argv, want) {
		t.Errorf("expected argv %v, got %v", want, fake.argv)
	}
}

func TestPullTraceToolError(t *testing.T) {
	fake := &fakeRunner{res: Result{ExitCode: 1, Stderr: "device unauthorized\n"}}
	tool := newTestTool(t, fake)

	_, err := tool.PullTrace(context.Background(), ConnParams{}, "Run2.utrace", t.TempDir())
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.Message != "device unauthorized" {
		t.Errorf("unexpected message %q", toolErr.Message)
	}
}
