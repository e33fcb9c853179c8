// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/aibor/pirun/internal/qemu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() qemu.CommandSpec {
	return qemu.CommandSpec{
		Executable: "qemu-system-arm",
		Machine:    "raspi2",
		Kernel:     "/tmp/qemu-exec/boot/kernel7.img",
		DTB:        "/tmp/qemu-exec/boot/bcm2709-rpi-2-b.dtb",
		Cmdline:    "console=ttyAMA0 root=/dev/mmcblk0p2 rootwait\n",
		SDImage:    "/tmp/qemu-exec/raspbian.img",
	}
}

func TestNewCommand(t *testing.T) {
	cmd, err := qemu.NewCommand(validSpec())
	require.NoError(t, err)

	expected := []string{
		"-M", "raspi2",
		"-append", "console=ttyAMA0 root=/dev/mmcblk0p2 rootwait\n",
		"-dtb", "/tmp/qemu-exec/boot/bcm2709-rpi-2-b.dtb",
		"-kernel", "/tmp/qemu-exec/boot/kernel7.img",
		"-serial", "stdio",
		"-sd", "/tmp/qemu-exec/raspbian.img",
		"-display", "none",
	}

	assert.Equal(t, "qemu-system-arm", cmd.Name())
	assert.Equal(t, expected, cmd.Args())
}

func TestNewCommandEmptyCmdline(t *testing.T) {
	spec := validSpec()
	spec.Cmdline = ""

	cmd, err := qemu.NewCommand(spec)
	require.NoError(t, err)

	// The empty command line is passed as its own argument, so QEMU does
	// not take the next flag as value.
	assert.Equal(t, []string{"-M", "raspi2", "-append", "", "-dtb"}, cmd.Args()[:5])
}

func TestNewCommandExtraArgs(t *testing.T) {
	t.Run("additional", func(t *testing.T) {
		spec := validSpec()
		spec.ExtraArgs = []qemu.Argument{
			qemu.RepeatableArg("device", "usb-kbd"),
			qemu.RepeatableArg("device", "usb-mouse"),
		}

		cmd, err := qemu.NewCommand(spec)
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"-device", "usb-kbd", "-device", "usb-mouse"},
			cmd.Args()[len(cmd.Args())-4:],
		)
	})

	t.Run("colliding", func(t *testing.T) {
		spec := validSpec()
		spec.ExtraArgs = []qemu.Argument{
			qemu.RepeatableArg("display", "gtk"),
		}

		_, err := qemu.NewCommand(spec)
		require.ErrorIs(t, err, qemu.ErrArgumentCollision)
	})
}

func TestCommandSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*qemu.CommandSpec)
	}{
		{name: "executable", modify: func(s *qemu.CommandSpec) { s.Executable = "" }},
		{name: "machine", modify: func(s *qemu.CommandSpec) { s.Machine = "" }},
		{name: "kernel", modify: func(s *qemu.CommandSpec) { s.Kernel = "" }},
		{name: "dtb", modify: func(s *qemu.CommandSpec) { s.DTB = "" }},
		{name: "sd image", modify: func(s *qemu.CommandSpec) { s.SDImage = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.modify(&spec)

			err := spec.Validate()
			require.ErrorIs(t, err, &qemu.ArgumentError{})
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestCommandSpecArguments(t *testing.T) {
	spec := validSpec()

	qemu.ArgumentValueAssertionFunc("serial", assert.Equal)(t, spec, "stdio")
	qemu.ArgumentValueAssertionFunc("display", assert.Equal)(t, spec, "none")
	qemu.ArgumentValueAssertionFunc("sd", assert.Equal)(t, spec, spec.SDImage)
}
