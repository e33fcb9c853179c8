// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package host

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownEscalation is returned if an [Escalation] is not known.
	ErrUnknownEscalation = errors.New("unknown escalation strategy")

	// ErrEmptyCommand is returned if a [Command] has no name.
	ErrEmptyCommand = errors.New("command name must not be empty")
)

// CommandError is returned if an external command could not be run or exited
// with a non-zero exit code.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	msg := strings.Join(e.Args, " ")

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
