// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hosttest provides a fake [host.Runner] for tests.
package hosttest

import (
	"context"
	"slices"
	"sync"

	"github.com/aibor/pirun/internal/host"
)

// HandlerFunc handles a single faked [host.Command].
type HandlerFunc func(cmd host.Command) (string, error)

// Recorder is a [host.Runner] that records all commands and dispatches them
// to handlers by command name. Commands without handler succeed with empty
// output.
type Recorder struct {
	Handlers map[string]HandlerFunc

	mu       sync.Mutex
	commands []host.Command
}

var _ host.Runner = (*Recorder)(nil)

// Run implements [host.Runner].
func (r *Recorder) Run(_ context.Context, cmd host.Command) (string, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	handler, exists := r.Handlers[cmd.Name]
	if !exists {
		return "", nil
	}

	return handler(cmd)
}

// Commands returns all recorded commands in order.
func (r *Recorder) Commands() []host.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.commands)
}

// Lines returns all recorded commands formatted as strings.
func (r *Recorder) Lines() []string {
	commands := r.Commands()
	lines := make([]string, 0, len(commands))

	for _, cmd := range commands {
		lines = append(lines, cmd.String())
	}

	return lines
}

// Count returns how often a command with the given name and first argument
// was run. An empty first argument matches any.
func (r *Recorder) Count(name, firstArg string) int {
	var count int

	for _, cmd := range r.Commands() {
		if cmd.Name != name {
			continue
		}

		if firstArg != "" && (len(cmd.Args) == 0 || cmd.Args[0] != firstArg) {
			continue
		}

		count++
	}

	return count
}

// Fail returns a [HandlerFunc] that fails like a command that exited with the
// given exit code.
func Fail(exitCode int, err error) HandlerFunc {
	return func(cmd host.Command) (string, error) {
		return "", &host.CommandError{
			Args:     append([]string{cmd.Name}, cmd.Args...),
			ExitCode: exitCode,
			Err:      err,
		}
	}
}

// Output returns a [HandlerFunc] that succeeds with the given output.
func Output(stdout string) HandlerFunc {
	return func(host.Command) (string, error) {
		return stdout, nil
	}
}
