// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// QEMU machine type to use, like "raspi2".
	Machine string

	// Path to the kernel image extracted from the boot partition.
	Kernel string

	// Path to the device tree blob extracted from the boot partition.
	DTB string

	// Kernel command line, usually the content of cmdline.txt.
	Cmdline string

	// Path to the disk image attached as SD card.
	SDImage string

	// Path of a file the serial console output is copied to additionally.
	SerialLog string

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not interfere with the essential arguments set by the command
	// itself or an error will be returned by [NewCommand].
	ExtraArgs []Argument
}

// Validate checks that all required fields are set.
func (s *CommandSpec) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"executable", s.Executable},
		{"machine", s.Machine},
		{"kernel", s.Kernel},
		{"dtb", s.DTB},
		{"sd image", s.SDImage},
	}

	for _, field := range required {
		if field.value == "" {
			return &ArgumentError{field.name + " must not be empty"}
		}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("M", s.Machine),
		UniqueArg("append", s.Cmdline),
		UniqueArg("dtb", s.DTB),
		UniqueArg("kernel", s.Kernel),
		// Guest serial console on the terminal.
		UniqueArg("serial", "stdio"),
		UniqueArg("sd", s.SDImage),
		// Disable video output.
		UniqueArg("display", "none"),
	}

	return append(args, s.ExtraArgs...)
}
