package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/Norgate-AV/dpkhook/internal/codes"
	"github.com/Norgate-AV/dpkhook/internal/logger"
)

// Commander interface for testing
type Commander interface {
	Run() error
}

// CommandBuilder runs packaging tool commands
type CommandBuilder struct {
	execCommand func(ctx context.Context, name string, args ...string) Commander
}

// NewCommandBuilder creates a new command builder
func NewCommandBuilder() *CommandBuilder {
	return &CommandBuilder{
		execCommand: func(ctx context.Context, name string, args ...string) Commander {
			return exec.CommandContext(ctx, name, args...)
		},
	}
}

// ExecuteCommand runs the command to completion with the console attached.
// Any exit status other than zero is returned as an error.
func (cb *CommandBuilder) ExecuteCommand(ctx context.Context, sc *ShellCommand) error {
	c := cb.execCommand(ctx, sc.Path, sc.Args...)
	if cmd, ok := c.(*exec.Cmd); ok {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		logger.Errorf(ctx, "Packaging failed (exit code %d): %s", code, codes.GetErrorMessage(code))

		return fmt.Errorf("%s exited with code %d: %w", sc.Path, code, err)
	}

	logger.Errorf(ctx, "Failed to launch %s: %v", sc.Path, err)

	return fmt.Errorf("failed to run %s: %w", sc.Path, err)
}
