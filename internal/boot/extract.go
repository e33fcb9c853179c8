// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/loop"
	"github.com/aibor/pirun/internal/mount"
)

const (
	bootPartition  = 1
	defaultDirMode = 0o755
)

// Extractor copies the boot files of a [Board] out of a disk image.
type Extractor struct {
	Runner host.Runner
	Board  Board

	// CopyCmdline copies the kernel command line file as well.
	CopyCmdline bool

	// SkipProbe skips the partition table check before the image is
	// attached.
	SkipProbe bool
}

// Extract copies the boot files from the first partition of the given image
// into the boot directory of workDir.
//
// The boot directory is created if it does not exist. The partition is
// mounted into a temporary directory in workDir that is removed again
// afterwards.
func (e *Extractor) Extract(ctx context.Context, workDir, image string) error {
	if !e.SkipProbe {
		partition, err := Probe(image)
		if err != nil {
			return fmt.Errorf("probe %s: %w", image, err)
		}

		slog.Debug("Found boot partition",
			slog.Int64("start", partition.Start),
			slog.Int64("size", partition.Size))
	}

	destDir := Dir(workDir)

	err := os.Mkdir(destDir, defaultDirMode)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create boot dir: %w", err)
	}

	mountDir, err := os.MkdirTemp(workDir, "mount")
	if err != nil {
		return fmt.Errorf("create mount dir: %w", err)
	}

	defer removeMountDir(mountDir)

	copyFiles := func(dir string) error {
		return e.copyFiles(ctx, dir, destDir)
	}

	return loop.WithDevice(ctx, e.Runner, image, func(dev *loop.Device) error {
		return mount.WithMount(ctx, e.Runner, dev.Partition(bootPartition), mountDir, copyFiles)
	})
}

func (e *Extractor) copyFiles(ctx context.Context, srcDir, destDir string) error {
	files := e.Board.Files(e.CopyCmdline)
	args := make([]string, 0, len(files)+1)

	for _, file := range files {
		args = append(args, filepath.Join(srcDir, file))
	}

	args = append(args, destDir)

	slog.Info("Copying boot files",
		slog.Any("files", files),
		slog.String("dest", destDir))

	_, err := e.Runner.Run(ctx, host.Command{
		Name:       "cp",
		Args:       args,
		Privileged: true,
	})
	if err != nil {
		return fmt.Errorf("copy boot files: %w", err)
	}

	return nil
}

// removeMountDir removes the directory only if it is empty, so a directory
// that is still mounted is never cleared.
func removeMountDir(dir string) {
	err := os.Remove(dir)
	if err != nil {
		slog.Warn("Failed to remove mount dir",
			slog.String("dir", dir),
			slog.Any("error", err))
	}
}
