// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package host

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// Command is a single invocation of an external tool.
type Command struct {
	// Name of the executable. Looked up in PATH.
	Name string

	// Args passed to the executable.
	Args []string

	// Dir is the working directory. If empty, the current one is used.
	Dir string

	// Privileged commands are run with the [Escalation] prefix.
	Privileged bool
}

// String implements [fmt.Stringer].
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs [Command]s and returns their standard output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// RunnerFunc is an adapter to use ordinary functions as [Runner].
type RunnerFunc func(ctx context.Context, cmd Command) (string, error)

// Run implements [Runner].
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (string, error) {
	return f(ctx, cmd)
}

// ExecRunner runs [Command]s as processes on the host.
type ExecRunner struct {
	Escalation Escalation
}

var _ Runner = (*ExecRunner)(nil)

// Args returns the complete argument list including the privilege prefix.
func (r *ExecRunner) Args(cmd Command) []string {
	var args []string

	if cmd.Privileged {
		args = append(args, r.Escalation.Prefix()...)
	}

	args = append(args, cmd.Name)

	return append(args, cmd.Args...)
}

// Run runs the given [Command] and waits for it to finish. Stdout is returned
// as is. A non-zero exit code results in a [CommandError] that carries the
// captured stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (string, error) {
	if cmd.Name == "" {
		return "", ErrEmptyCommand
	}

	args := r.Args(cmd)

	//nolint:gosec
	proc := exec.CommandContext(ctx, args[0], args[1:]...)
	proc.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer

	proc.Stdout = &stdout
	proc.Stderr = &stderr

	slog.Debug("Run command",
		slog.String("command", proc.String()),
		slog.String("dir", cmd.Dir))

	err := proc.Run()
	if err != nil {
		cmdErr := &CommandError{
			Args:     args,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}

		return stdout.String(), cmdErr
	}

	return stdout.String(), nil
}
