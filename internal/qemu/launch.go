// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"os"
	"path/filepath"

	"github.com/aibor/pirun/internal/boot"
	"github.com/dustin/go-humanize"
)

// Launcher boots disk images of a [boot.Board].
type Launcher struct {
	Board boot.Board

	// Executable overrides the board's QEMU binary if set.
	Executable string

	// SerialLog is a file the serial console output is appended to.
	SerialLog string

	// ExtraArgs are passed to QEMU in addition to the fixed ones.
	ExtraArgs []Argument
}

// Spec returns the [CommandSpec] for booting image with the boot files from
// the boot directory of workDir and the given kernel command line.
func (l *Launcher) Spec(workDir, image, cmdline string) CommandSpec {
	bootDir := boot.Dir(workDir)

	executable := l.Board.Executable
	if l.Executable != "" {
		executable = l.Executable
	}

	return CommandSpec{
		Executable: executable,
		Machine:    l.Board.Machine,
		Kernel:     filepath.Join(bootDir, l.Board.Kernel),
		DTB:        filepath.Join(bootDir, l.Board.DTB),
		Cmdline:    cmdline,
		SDImage:    image,
		SerialLog:  l.SerialLog,
		ExtraArgs:  l.ExtraArgs,
	}
}

// Launch boots the given disk image and blocks until QEMU exits.
//
// The kernel command line is read from cmdline.txt in the boot directory of
// workDir. If it does not exist, an error matching [fs.ErrNotExist] is
// returned and QEMU is not started.
func (l *Launcher) Launch(
	ctx context.Context,
	workDir string,
	image string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	cmdline, err := os.ReadFile(filepath.Join(boot.Dir(workDir), boot.CmdlineFile))
	if err != nil {
		return fmt.Errorf("read kernel command line: %w", err)
	}

	warnOnInvalidSDSize(image)

	cmd, err := NewCommand(l.Spec(workDir, image, string(cmdline)))
	if err != nil {
		return fmt.Errorf("build qemu command: %w", err)
	}

	slog.Info("Starting emulator",
		slog.String("machine", l.Board.Machine),
		slog.String("image", image))

	return cmd.Run(ctx, stdin, stdout, stderr)
}

// warnOnInvalidSDSize logs a warning if the image's size is not a power of
// two. QEMU refuses such SD card images.
func warnOnInvalidSDSize(image string) {
	info, err := os.Stat(image)
	if err != nil {
		slog.Debug("Cannot stat SD image", slog.Any("error", err))
		return
	}

	size := info.Size()
	if !isPowerOfTwo(size) {
		slog.Warn("SD image size is not a power of 2, QEMU may refuse it",
			slog.String("image", image),
			slog.String("size", humanize.IBytes(uint64(size))),
			slog.String("hint", fmt.Sprintf("qemu-img resize -f raw %s %d",
				image, nextPowerOfTwo(size))))
	}
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && bits.OnesCount64(uint64(n)) == 1
}

// nextPowerOfTwo returns the smallest power of two not less than n.
func nextPowerOfTwo(n int64) int64 {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len64(uint64(n-1))
}
