// Package shell provides the shell-backed task implementation and executor.
package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs the command through `sh -e -c` in the given directory,
// streaming stdout and stderr lines to the logger. A non-zero exit attaches
// exit_code metadata to the returned error.
func (e *Executor) Execute(ctx context.Context, dir string, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-e", "-c", command) //nolint:gosec // user provided command
	cmd.Dir = dir
	cmd.Stdout = &logWriter{logger: e.logger, level: "info"}
	cmd.Stderr = &logWriter{logger: e.logger, level: "error"}

	if err := cmd.Run(); err != nil {
		exitCode := 1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "command", command)
		return zerr.With(wrapped, "exit_code", exitCode)
	}
	return nil
}

// logWriter forwards process output lines to the logger. Partial writes are
// forwarded as-is; task output is informational, not parsed.
type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimSuffix(string(p), "\n"), "\n") {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}

var _ ports.Executor = (*Executor)(nil)
