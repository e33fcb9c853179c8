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

func TestArgumentEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     qemu.Argument
		expected bool
	}{
		{
			name:     "different names",
			a:        qemu.UniqueArg("kernel", "a"),
			b:        qemu.UniqueArg("dtb", "a"),
			expected: false,
		},
		{
			name:     "unique same name",
			a:        qemu.UniqueArg("kernel", "a"),
			b:        qemu.UniqueArg("kernel", "b"),
			expected: true,
		},
		{
			name:     "repeatable different values",
			a:        qemu.RepeatableArg("device", "usb-kbd"),
			b:        qemu.RepeatableArg("device", "usb-mouse"),
			expected: false,
		},
		{
			name:     "repeatable same values",
			a:        qemu.RepeatableArg("device", "usb-kbd"),
			b:        qemu.RepeatableArg("device", "usb-kbd"),
			expected: true,
		},
		{
			name:     "repeatable against unique",
			a:        qemu.RepeatableArg("M", "raspi3b"),
			b:        qemu.UniqueArg("M", "raspi2"),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
			assert.Equal(t, tt.expected, tt.b.Equal(tt.a), "must be symmetric")
		})
	}
}

func TestBuildArgumentStrings(t *testing.T) {
	t.Run("builds", func(t *testing.T) {
		args := []qemu.Argument{
			qemu.UniqueArg("kernel", "kernel7.img"),
			qemu.UniqueArg("nographic"),
			qemu.RepeatableArg("device", "usb-kbd"),
			qemu.RepeatableArg("device", "usb-mouse"),
		}
		expected := []string{
			"-kernel", "kernel7.img",
			"-nographic",
			"-device", "usb-kbd",
			"-device", "usb-mouse",
		}

		actual, err := qemu.BuildArgumentStrings(args)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	})

	t.Run("empty value", func(t *testing.T) {
		args := []qemu.Argument{
			qemu.UniqueArg("append", ""),
			qemu.UniqueArg("dtb", "rpi.dtb"),
		}

		actual, err := qemu.BuildArgumentStrings(args)
		require.NoError(t, err)
		assert.Equal(t, []string{"-append", "", "-dtb", "rpi.dtb"}, actual)
	})

	t.Run("collision", func(t *testing.T) {
		args := []qemu.Argument{
			qemu.UniqueArg("kernel", "kernel7.img"),
			qemu.UniqueArg("kernel", "kernel8.img"),
		}

		_, err := qemu.BuildArgumentStrings(args)
		require.ErrorIs(t, err, qemu.ErrArgumentCollision)
	})
}

func TestParseArgument(t *testing.T) {
	tests := []struct {
		input         string
		expectedName  string
		expectedValue string
		expectedErr   error
	}{
		{input: "nographic", expectedName: "nographic"},
		{input: "-m=1G", expectedName: "m", expectedValue: "1G"},
		{
			input:         "device=usb-net,netdev=net0",
			expectedName:  "device",
			expectedValue: "usb-net,netdev=net0",
		},
		{input: "=1G", expectedErr: &qemu.ArgumentError{}},
		{input: "-", expectedErr: &qemu.ArgumentError{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			arg, err := qemu.ParseArgument(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			assert.Equal(t, tt.expectedName, arg.Name())
			assert.Equal(t, tt.expectedValue, arg.Value())
			assert.False(t, arg.UniqueName())
		})
	}
}

func TestArgumentList(t *testing.T) {
	var list qemu.ArgumentList

	require.NoError(t, list.Set("m=1G"))
	require.NoError(t, list.Set("device=usb-kbd"))
	assert.Equal(t, "-m 1G -device usb-kbd", list.String())

	require.NoError(t, list.Set(""))
	assert.Empty(t, list)

	require.Error(t, list.Set("=x"))
}
