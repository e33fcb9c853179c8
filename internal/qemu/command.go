// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

const serialLogFileMode = 0o644

// Command is a single QEMU command that can be run.
type Command struct {
	name      string
	args      []string
	serialLog string
}

// NewCommand builds the QEMU command for the given [CommandSpec].
func NewCommand(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		name:      spec.Executable,
		args:      args,
		serialLog: spec.SerialLog,
	}

	return cmd, nil
}

// Name returns the executable name.
func (c *Command) Name() string {
	return c.name
}

// Args returns the arguments passed to the executable.
func (c *Command) Args() []string {
	return c.args
}

// String prints the human readable string representation of the command.
//
// It just joins name and args with spaces, so it is not shell safe.
func (c *Command) String() string {
	elems := append([]string{c.name}, c.args...)
	return strings.Join(elems, " ")
}

// Run runs the command and blocks until it exits.
//
// The guest's serial console is wired to stdin and stdout. Serial output is
// additionally written to the serial log file, if configured.
//
// A non-zero exit code results in a [CommandError] carrying the exit code. If
// a kernel panic was detected on the serial console, [ErrGuestPanic] is joined
// into the returned error.
func (c *Command) Run(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	//nolint:gosec
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Stdin = stdin
	cmd.Stderr = stderr

	detector := &panicDetector{}
	writers := []io.Writer{stdout, detector}

	if c.serialLog != "" {
		logFile, err := os.OpenFile(
			c.serialLog,
			os.O_WRONLY|os.O_CREATE|os.O_APPEND,
			serialLogFileMode,
		)
		if err != nil {
			return &CommandError{Err: fmt.Errorf("open serial log: %w", err)}
		}
		defer logFile.Close()

		writers = append(writers, logFile)
	}

	serial, err := cmd.StdoutPipe()
	if err != nil {
		return &CommandError{Err: err}
	}

	slog.Debug("QEMU command", slog.String("command", c.String()))

	err = cmd.Start()
	if err != nil {
		return &CommandError{Err: fmt.Errorf("start: %w", err)}
	}

	var copyGroup errgroup.Group

	copyGroup.Go(func() error {
		_, err := io.Copy(io.MultiWriter(writers...), serial)
		if err != nil {
			// Keep draining, so QEMU does not block on a full pipe.
			_, _ = io.Copy(io.Discard, serial)
			return fmt.Errorf("serial console: %w", err)
		}

		return nil
	})

	// All output must be read before waiting for the process.
	copyErr := copyGroup.Wait()
	waitErr := cmd.Wait()

	if detector.Panicked() {
		slog.Warn("Guest kernel panic detected on serial console")
	}

	err = errors.Join(waitErr, copyErr)
	if err == nil {
		return nil
	}

	if detector.Panicked() {
		err = errors.Join(err, ErrGuestPanic)
	}

	cmdErr := &CommandError{Err: err, ExitCode: -1}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}

	return cmdErr
}
