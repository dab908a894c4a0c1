package uaft

import "fmt"

// LaunchError reports that an external executable could not be started at
// all: missing, not executable, or blocked by the OS. Never retried.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %s: %v (check that it is an executable and not blocked; on Windows: Right-click > Properties > Unblock)", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ToolError reports that the tool ran but exited non-zero for an operation
// where that means failure. Message carries the captured stderr, or stdout
// when stderr was empty, verbatim apart from trimming.
type ToolError struct {
	Op       string
	ExitCode int
	Message  string
}

func (e *ToolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: tool exited with code %d", e.Op, e.ExitCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
