package engine

import (
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/nimbusctl/stormengine/internal/provider"
)

// cancelPollInterval is how often RunSubprocess polls the task
// context's cooperative cancellation flag while a command runs.
const cancelPollInterval = 100 * time.Millisecond

// RunSubprocess runs an external command with the task context's out
// and err sinks as its standard streams, and propagates cooperative
// cancellation into it with three escalating responses: the first
// cancellation request sends a graceful termination signal, the
// second a forced kill, and the third gives up and returns (nil, nil)
// with the process left to exit on its own. dir, if non-empty, scopes
// the command's working directory; the caller's own working directory
// is saved and restored around the call.
func RunSubprocess(ctx provider.TaskContext, dir, name string, args ...string) (*os.ProcessState, error) {
	if dir != "" {
		oldDir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if err := os.Chdir(dir); err != nil {
			return nil, err
		}
		defer os.Chdir(oldDir)
	}

	cmd := exec.Command(name, args...)
	cmd.Stdout = ctx.Out()
	cmd.Stderr = ctx.Err()
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(cancelPollInterval)
	defer ticker.Stop()

	escalation := 0
	for {
		select {
		case waitErr := <-done:
			var exitErr *exec.ExitError
			if waitErr != nil && !errors.As(waitErr, &exitErr) {
				return nil, waitErr
			}
			return cmd.ProcessState, nil

		case <-ticker.C:
			if err := ctx.CancelCheck(); err == nil {
				continue
			}
			switch escalation {
			case 0:
				_ = cmd.Process.Signal(os.Interrupt)
			case 1:
				_ = cmd.Process.Kill()
			default:
				return nil, nil
			}
			escalation++
		}
	}
}
