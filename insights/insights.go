// Package insights launches the Unreal Insights viewer on a pulled trace.
package insights

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Open starts the viewer on tracePath without waiting for it to exit.
// Errors are for the caller to report; a failed launch never undoes the
// pull that preceded it.
func Open(exePath, tracePath string) error {
	if exePath == "" {
		return fmt.Errorf("no Unreal Insights executable configured")
	}
	if _, err := os.Stat(exePath); err != nil {
		return fmt.Errorf("Unreal Insights not found at %q: %w", exePath, err)
	}

	cmd := exec.Command(exePath, tracePath)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch Unreal Insights: %w", err)
	}
	log.Info().Str("trace", tracePath).Msg("launched Unreal Insights")

	go func() { _ = cmd.Wait() }() // reap

	return nil
}
