package smithy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is how smithy is launched unless configured otherwise.
var DefaultCommand = []string{"conda", "smithy"}

// Runner executes smithy invocations.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecRunner runs smithy as a subprocess. Output is streamed to Stdout and
// Stderr.
type ExecRunner struct {
	Command []string
	// Env is added to the inherited environment, later entries winning.
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunner(command []string) *ExecRunner {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &ExecRunner{
		Command: command,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	args := append(append([]string{}, r.Command[1:]...), inv.Subcommand)
	args = append(args, inv.Args...)

	cmd := exec.CommandContext(ctx, r.Command[0], args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	slog.Debug("Running smithy", "command", r.Command[0]+" "+strings.Join(args, " "), "dir", inv.Dir)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s %s exited with status %d: %w",
				strings.Join(r.Command, " "), inv.Subcommand, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("running %s %s: %w", strings.Join(r.Command, " "), inv.Subcommand, err)
	}
	return nil
}
