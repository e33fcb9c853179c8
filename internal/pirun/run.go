// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pirun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/pirun/internal/archive"
	"github.com/aibor/pirun/internal/boot"
	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/qemu"
)

const workDirMode = 0o755

// Run runs with the given [Spec].
//
// External tools are run on the host with the privilege escalation of the
// [Spec]. It returns no error if the archive was extracted, the boot files
// were copied and QEMU exited with exit code 0.
func Run(
	ctx context.Context,
	spec *Spec,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	runner := &host.ExecRunner{Escalation: spec.Escalation}
	return RunWith(ctx, spec, runner, stdin, stdout, stderr)
}

// RunWith is like [Run] but runs all external tools except QEMU with the
// given [host.Runner].
func RunWith(
	ctx context.Context,
	spec *Spec,
	runner host.Runner,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	board, err := spec.Validate()
	if err != nil {
		return err
	}

	err = os.MkdirAll(spec.WorkDir, workDirMode)
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	archiveExtractor := archive.Extractor{Runner: runner}

	image, err := archiveExtractor.Extract(ctx, spec.Archive, spec.WorkDir)
	if err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	slog.Debug("Disk image ready", slog.String("image", image))

	bootExtractor := boot.Extractor{
		Runner:      runner,
		Board:       board,
		CopyCmdline: spec.CopyCmdline,
		SkipProbe:   spec.SkipProbe,
	}

	err = bootExtractor.Extract(ctx, spec.WorkDir, image)
	if err != nil {
		return fmt.Errorf("extract boot files: %w", err)
	}

	launcher := qemu.Launcher{
		Board:      board,
		Executable: spec.QemuBin,
		SerialLog:  spec.SerialLog,
		ExtraArgs:  spec.QemuArgs,
	}

	err = launcher.Launch(ctx, spec.WorkDir, image, stdin, stdout, stderr)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}

	return nil
}
