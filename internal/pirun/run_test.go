// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pirun_test

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/aibor/pirun/internal/boot/boottest"
	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/host/hosttest"
	"github.com/aibor/pirun/internal/pirun"
	"github.com/aibor/pirun/internal/qemu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRunner fakes all host tools. The fake unzip creates raspbian.img with a
// boot partition in its working directory.
func newRunner(tb testing.TB) *hosttest.Recorder {
	tb.Helper()

	handlers := boottest.Tools()
	handlers["unzip"] = func(cmd host.Command) (string, error) {
		boottest.WriteImage(tb, filepath.Join(cmd.Dir, "raspbian.img"), true)
		return "", nil
	}

	return &hosttest.Recorder{Handlers: handlers}
}

func newSpec(tb testing.TB) *pirun.Spec {
	tb.Helper()

	archive := filepath.Join(tb.TempDir(), "raspbian.zip")
	require.NoError(tb, os.WriteFile(archive, nil, 0o600))

	return &pirun.Spec{
		WorkDir: filepath.Join(tb.TempDir(), "qemu-exec"),
		Archive: archive,
		QemuBin: "true",
	}
}

func readDir(tb testing.TB, dir string) []string {
	tb.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(tb, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}

func TestRunWithoutCmdline(t *testing.T) {
	spec := newSpec(t)
	runner := newRunner(t)

	require.NoDirExists(t, spec.WorkDir, "work dir is created by the run")

	err := pirun.RunWith(t.Context(), spec, runner, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.NotErrorIs(t, err, &qemu.CommandError{}, "qemu must not be started")

	assert.FileExists(t, filepath.Join(spec.WorkDir, "raspbian.img"))
	assert.ElementsMatch(t,
		[]string{"kernel7.img", "bcm2709-rpi-2-b.dtb"},
		readDir(t, filepath.Join(spec.WorkDir, "boot")),
	)

	assert.Equal(t, 1, runner.Count("losetup", "-f"))
	assert.Equal(t, 1, runner.Count("losetup", "-d"))
	assert.Equal(t, 1, runner.Count("umount", ""))
}

func TestRunWithCmdline(t *testing.T) {
	spec := newSpec(t)
	spec.CopyCmdline = true

	runner := newRunner(t)

	err := pirun.RunWith(t.Context(), spec, runner, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"kernel7.img", "bcm2709-rpi-2-b.dtb", "cmdline.txt"},
		readDir(t, filepath.Join(spec.WorkDir, "boot")),
	)

	// Only the boot directory and the image are left.
	assert.ElementsMatch(t,
		[]string{"boot", "raspbian.img"},
		readDir(t, spec.WorkDir),
	)

	names := make([]string, 0)
	for _, cmd := range runner.Commands() {
		names = append(names, cmd.Name)
	}

	assert.Equal(t, []string{"unzip", "losetup", "mount", "cp", "umount", "losetup"}, names)
	assert.False(t, slices.ContainsFunc(runner.Commands(), func(cmd host.Command) bool {
		return cmd.Name == "unzip" && cmd.Privileged
	}), "unzip must run unprivileged")
}

func TestRunQemuFails(t *testing.T) {
	spec := newSpec(t)
	spec.CopyCmdline = true
	spec.QemuBin = "false"

	err := pirun.RunWith(t.Context(), spec, newRunner(t), nil, &bytes.Buffer{}, &bytes.Buffer{})

	var cmdErr *qemu.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestRunMountFails(t *testing.T) {
	spec := newSpec(t)
	runner := newRunner(t)
	runner.Handlers["mount"] = hosttest.Fail(32, assert.AnError)

	err := pirun.RunWith(t.Context(), spec, runner, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, 1, runner.Count("losetup", "-d"), "loop device must be detached")
	assert.Equal(t, 0, runner.Count("cp", ""))
	assert.Empty(t, readDir(t, filepath.Join(spec.WorkDir, "boot")))
}

func TestRunUnzipFails(t *testing.T) {
	spec := newSpec(t)
	runner := newRunner(t)
	runner.Handlers["unzip"] = hosttest.Fail(9, assert.AnError)

	err := pirun.RunWith(t.Context(), spec, runner, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, assert.AnError)

	var cmdErr *host.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 9, cmdErr.ExitCode)
	assert.Equal(t, 0, runner.Count("losetup", ""))
}

func TestRunInvalidSpec(t *testing.T) {
	runner := newRunner(t)

	err := pirun.RunWith(t.Context(), &pirun.Spec{WorkDir: t.TempDir()}, runner,
		nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, pirun.ErrEmptyArchive)
	assert.Empty(t, runner.Commands())
}
