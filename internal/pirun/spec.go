// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pirun

import (
	"fmt"

	"github.com/aibor/pirun/internal/boot"
	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/qemu"
)

// DefaultWorkDir is the working directory used if none is configured.
const DefaultWorkDir = "/tmp/qemu-exec"

// Spec describes a single [Run].
type Spec struct {
	// WorkDir is the scratch directory the image is extracted to. It is
	// created if it does not exist.
	WorkDir string

	// Archive is the path of the image archive.
	Archive string

	// Board is the name of the emulated board, see [boot.BoardNames].
	Board string

	// QemuBin overrides the board's QEMU binary.
	QemuBin string

	// Escalation is used for commands that require root privileges.
	Escalation host.Escalation

	// CopyCmdline copies cmdline.txt from the boot partition along with the
	// kernel and the device tree blob.
	CopyCmdline bool

	// SkipProbe skips the partition table check of the image.
	SkipProbe bool

	// SerialLog is a file the guest's serial output is appended to.
	SerialLog string

	// QemuArgs are passed to QEMU in addition to the essential ones.
	QemuArgs []qemu.Argument
}

// Validate checks the [Spec] and returns the [boot.Board] it refers to.
func (s *Spec) Validate() (boot.Board, error) {
	if s.Archive == "" {
		return boot.Board{}, ErrEmptyArchive
	}

	if s.WorkDir == "" {
		return boot.Board{}, ErrEmptyWorkDir
	}

	name := s.Board
	if name == "" {
		name = boot.DefaultBoard
	}

	board, err := boot.BoardFor(name)
	if err != nil {
		return boot.Board{}, fmt.Errorf("board: %w", err)
	}

	return board, nil
}
