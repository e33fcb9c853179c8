// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRun(t *testing.T) {
	tests := []struct {
		name             string
		script           string
		expectedStdout   string
		expectedExitCode int
		expectedPanic    bool
	}{
		{
			name:           "success",
			script:         "echo login:",
			expectedStdout: "login:\n",
		},
		{
			name:             "exit code",
			script:           "echo serial; exit 3",
			expectedStdout:   "serial\n",
			expectedExitCode: 3,
		},
		{
			name: "kernel panic",
			script: "echo '[    2.1] Kernel panic - not syncing: VFS: Unable to mount root fs'; " +
				"exit 1",
			expectedStdout:   "[    2.1] Kernel panic - not syncing: VFS: Unable to mount root fs\n",
			expectedExitCode: 1,
			expectedPanic:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serialLog := filepath.Join(t.TempDir(), "serial.log")
			cmd := &Command{
				name:      "sh",
				args:      []string{"-c", tt.script},
				serialLog: serialLog,
			}

			var stdout, stderr bytes.Buffer

			err := cmd.Run(t.Context(), strings.NewReader(""), &stdout, &stderr)

			assert.Equal(t, tt.expectedStdout, stdout.String())

			logged, readErr := os.ReadFile(serialLog)
			require.NoError(t, readErr)
			assert.Equal(t, tt.expectedStdout, string(logged))

			if tt.expectedExitCode == 0 {
				require.NoError(t, err)
				return
			}

			var cmdErr *CommandError
			require.ErrorAs(t, err, &cmdErr)
			assert.Equal(t, tt.expectedExitCode, cmdErr.ExitCode)

			if tt.expectedPanic {
				require.ErrorIs(t, err, ErrGuestPanic)
			} else {
				require.NotErrorIs(t, err, ErrGuestPanic)
			}
		})
	}
}

func TestCommandRunSerialLogAppends(t *testing.T) {
	serialLog := filepath.Join(t.TempDir(), "serial.log")
	require.NoError(t, os.WriteFile(serialLog, []byte("previous\n"), 0o600))

	cmd := &Command{
		name:      "sh",
		args:      []string{"-c", "echo next"},
		serialLog: serialLog,
	}

	err := cmd.Run(t.Context(), nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	logged, err := os.ReadFile(serialLog)
	require.NoError(t, err)
	assert.Equal(t, "previous\nnext\n", string(logged))
}

func TestCommandRunStartFails(t *testing.T) {
	cmd := &Command{name: filepath.Join(t.TempDir(), "nonexistent")}

	err := cmd.Run(t.Context(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 0, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "start")
}

func TestCommandString(t *testing.T) {
	cmd := &Command{name: "qemu-system-arm", args: []string{"-M", "raspi2"}}
	assert.Equal(t, "qemu-system-arm -M raspi2", cmd.String())
}
