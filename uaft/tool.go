// Package uaft drives UnrealAndroidFileTool: it turns logical device
// operations into child-process invocations and parses the tool's text
// output back into typed lists.
package uaft

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rgupta/uaftctl/constants"
)

// Tool invokes UnrealAndroidFileTool through a Runner. It holds only the
// executable path; connection parameters arrive fresh with every call, so
// operations share no mutable state.
type Tool struct {
	path   string
	runner Runner
}

// New validates the executable path and binds a Tool to it. A nil runner
// gets the real ExecRunner.
func New(toolPath string, runner Runner) (*Tool, error) {
	info, err := os.Stat(toolPath)
	if err != nil {
		return nil, fmt.Errorf("UnrealAndroidFileTool not found at %q: %w (it usually lives under Engine/Binaries/DotNET/Android/<platform>/)", toolPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory, select the UnrealAndroidFileTool executable itself", toolPath)
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Tool{path: toolPath, runner: runner}, nil
}

// Path returns the executable the Tool is bound to.
func (t *Tool) Path() string { return t.path }

func (t *Tool) run(ctx context.Context, args []string) (Result, error) {
	argv := append([]string{t.path}, args...)
	return t.runner.Run(ctx, argv, "")
}

func toolError(op string, res Result) *ToolError {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	return &ToolError{Op: op, ExitCode: res.ExitCode, Message: msg}
}

// Devices enumerates the serials the tool can see, in its output order.
func (t *Tool) Devices(ctx context.Context) ([]string, error) {
	res, err := t.run(ctx, []string{"devices"})
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, toolError("devices", res)
	}
	return filterDeviceLines(splitLines(res.Stdout)), nil
}

// Packages enumerates packages exposing the Android File Server receiver.
// The serial is optional; when empty the tool picks its default device.
func (t *Tool) Packages(ctx context.Context, serial string) ([]string, error) {
	var args []string
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "packages")

	res, err := t.run(ctx, args)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, toolError("packages", res)
	}
	return filterPackageLines(splitLines(res.Stdout)), nil
}

// PushCommandFile uploads the local command file to the app's well-known
// command-file slot and returns the tool's raw stdout for logging.
func (t *Tool) PushCommandFile(ctx context.Context, params ConnParams, localPath string) (string, error) {
	args := append(params.BaseArgs(), "push", localPath, constants.RemoteCommandFile)
	res, err := t.run(ctx, args)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", toolError("push", res)
	}
	return res.Stdout, nil
}

// ListTraces lists trace artifacts under the app's saved traces directory.
// A non-zero exit here means the directory does not exist yet (fresh
// install, app never traced), so it yields an empty listing rather than
// an error.
func (t *Tool) ListTraces(ctx context.Context, params ConnParams) ([]string, error) {
	args := append(params.BaseArgs(), "ls", "-R", constants.RemoteTraceDir)
	res, err := t.run(ctx, args)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		log.Debug().Int("exit", res.ExitCode).Msg("trace directory missing, treating as empty")
		return nil, nil
	}
	return filterTraceLines(splitLines(res.Stdout)), nil
}

// PullTrace copies remoteFile into destDir, creating the directory when
// missing, and returns the local path the tool was asked to write. The
// tool's success code is trusted; the file is not re-verified.
func (t *Tool) PullTrace(ctx context.Context, params ConnParams, remoteFile, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination %s: %w", destDir, err)
	}

	args := append(params.BaseArgs(), "pull", remoteFile, destDir)
	res, err := t.run(ctx, args)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", toolError("pull", res)
	}
	// Remote listings always use forward slashes, hence path not filepath.
	return filepath.Join(destDir, path.Base(remoteFile)), nil
}
