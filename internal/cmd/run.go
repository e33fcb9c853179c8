// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/aibor/pirun/internal/boot"
	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/pirun"
	"github.com/aibor/pirun/internal/qemu"
)

const (
	exitCodeFailure = 1
	exitCodeUsage   = 2
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help or version is requested. So exit
	// without error in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints usage errors.
	if !errors.Is(err, &ParseArgsError{}) || errors.Is(err, ErrReadBuildInfo) {
		slog.Error(err.Error())
		return exitCodeFailure
	}

	return exitCodeUsage
}

func handleRunError(err error) int {
	exitCode := exitCodeFailure

	var qemuErr *qemu.CommandError
	if errors.As(err, &qemuErr) {
		if qemuErr.ExitCode > 0 {
			exitCode = qemuErr.ExitCode
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && errors.Is(err, fs.ErrNotExist) &&
		filepath.Base(pathErr.Path) == boot.CmdlineFile {
		slog.Warn(
			"kernel command line missing, provide it or use -copyCmdline",
			slog.String("path", pathErr.Path),
		)
	}

	var hostErr *host.CommandError
	if errors.As(err, &hostErr) && hostErr.ExitCode == -1 {
		slog.Warn(
			"maybe command not installed or privilege escalation not available",
			slog.Any("command", hostErr.Args),
		)
	}

	slog.Error(err.Error())

	return exitCode
}

// Run is the main entry point for the CLI command. The first argument is the
// program name.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	config, err := newConfig(defaultConfigDirs()...)
	if err != nil {
		slog.Error(err.Error())
		return exitCodeFailure
	}

	flags, err := newFlags(config, cfg.Stderr)
	if err != nil {
		slog.Error(err.Error())
		return exitCodeUsage
	}

	if len(args) > 0 {
		args = args[1:]
	}

	err = flags.ParseArgs(args)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	err = pirun.Run(ctx, &flags.spec, cfg.Stdin, cfg.Stdout, cfg.Stderr)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}
