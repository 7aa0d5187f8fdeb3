package poweroff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrEmptyCommand is returned when a Command has no program to run.
var ErrEmptyCommand = errors.New("power-off command is empty")

// Action powers off the machine.
type Action interface {
	// PowerOff performs the shutdown. It is called at most once per armed
	// cycle and may block; no timeout is imposed by the caller.
	PowerOff(ctx context.Context) error
}

// Func adapts an ordinary function to the Action interface.
type Func func(ctx context.Context) error

// PowerOff calls f(ctx).
func (f Func) PowerOff(ctx context.Context) error {
	return f(ctx)
}

// Command runs an external program to power off the machine.
type Command struct {
	// Argv is the program and its arguments.
	Argv []string
}

// DefaultCommand returns the shutdown command for the current platform.
func DefaultCommand() Command {
	return Command{Argv: DefaultArgv(runtime.GOOS)}
}

// DefaultArgv returns the immediate shutdown argv for goos.
func DefaultArgv(goos string) []string {
	switch goos {
	case "windows":
		return []string{"shutdown", "/s", "/t", "0"}
	default:
		return []string{"shutdown", "-h", "now"}
	}
}

// PowerOff runs the command and reports a non-zero exit together with its
// combined output.
func (c Command) PowerOff(ctx context.Context) error {
	if len(c.Argv) == 0 || c.Argv[0] == "" {
		return ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", c, err)
		}
		return fmt.Errorf("%s: %w: %s", c, err, msg)
	}
	return nil
}

// String returns the command line.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// DryRun logs the power-off instead of performing it.
type DryRun struct {
	// Logger receives the notice. If nil, slog.Default is used.
	Logger *slog.Logger

	// Describe is what would have been run, for the log line.
	Describe string
}

// PowerOff logs and returns nil.
func (d DryRun) PowerOff(ctx context.Context) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "dry run: power-off skipped", "would_run", d.Describe)
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ Action = Func(nil)
	_ Action = Command{}
	_ Action = DryRun{}
)
