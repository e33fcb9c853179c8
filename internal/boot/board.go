// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
)

// CmdlineFile is the name of the kernel command line file on the boot
// partition.
const CmdlineFile = "cmdline.txt"

// DefaultBoard is used if no board is given.
const DefaultBoard = "raspi2"

// Board describes an emulated Raspberry Pi model and the boot files it needs.
type Board struct {
	// QEMU system emulator binary.
	Executable string

	// QEMU machine type.
	Machine string

	// Kernel image file name on the boot partition.
	Kernel string

	// Device tree blob file name on the boot partition.
	DTB string
}

var boards = map[string]Board{
	"raspi2": {
		Executable: "qemu-system-arm",
		Machine:    "raspi2",
		Kernel:     "kernel7.img",
		DTB:        "bcm2709-rpi-2-b.dtb",
	},
	"raspi3b": {
		Executable: "qemu-system-aarch64",
		Machine:    "raspi3b",
		Kernel:     "kernel8.img",
		DTB:        "bcm2710-rpi-3-b.dtb",
	},
}

// BoardFor returns the [Board] with the given name.
func BoardFor(name string) (Board, error) {
	board, exists := boards[name]
	if !exists {
		return Board{}, fmt.Errorf("%w: %s (known: %v)",
			ErrUnknownBoard, name, BoardNames())
	}

	return board, nil
}

// BoardNames returns the sorted names of all known boards.
func BoardNames() []string {
	return slices.Sorted(maps.Keys(boards))
}

// Files returns the names of the files copied from the boot partition.
func (b Board) Files(withCmdline bool) []string {
	files := []string{b.Kernel, b.DTB}

	// The command line is not copied by default. The emulator expects it in
	// the boot dir anyway, so it must be provided by the user.
	if withCmdline {
		files = append(files, CmdlineFile)
	}

	return files
}

// Dir returns the directory boot files are extracted to.
func Dir(workDir string) string {
	return filepath.Join(workDir, "boot")
}
