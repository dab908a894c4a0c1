package uaft

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result is what a finished child process left behind.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes an external program and waits for it to finish.
// argv[0] is the executable path; the remaining elements are passed
// verbatim, with no shell in between.
type Runner interface {
	Run(ctx context.Context, argv []string, dir string) (Result, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string, dir string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("empty argument vector")
	}

	log.Debug().Str("cmd", strings.Join(argv, " ")).Msg("run cmd")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran and reported a code. Whether that is a failure
			// is the caller's call: a missing trace directory is a
			// legitimate non-zero exit.
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		log.Error().Err(err).Str("path", argv[0]).Msg("run cmd failed to start")
		return res, &LaunchError{Path: argv[0], Err: err}
	}
	return res, nil
}
