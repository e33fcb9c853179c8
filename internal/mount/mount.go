// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mount mounts block devices read-only for the duration of a
// function call.
package mount

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibor/pirun/internal/host"
)

// Point is a directory a device is mounted at.
type Point struct {
	Source string
	Dir    string
	runner host.Runner
}

// Mount mounts source read-only at dir.
func Mount(
	ctx context.Context,
	runner host.Runner,
	source string,
	dir string,
) (*Point, error) {
	slog.Info("Mounting device",
		slog.String("source", source),
		slog.String("dir", dir))

	point := &Point{Source: source, Dir: dir, runner: runner}

	_, err := runner.Run(ctx, host.Command{
		Name:       "mount",
		Args:       []string{"-o", "ro", source, dir},
		Privileged: true,
	})
	if err != nil {
		return point, fmt.Errorf("mount %s: %w", source, err)
	}

	return point, nil
}

// Unmount unmounts the mount point.
func (p *Point) Unmount(ctx context.Context) error {
	slog.Debug("Unmounting", slog.String("dir", p.Dir))

	_, err := p.runner.Run(ctx, host.Command{
		Name:       "umount",
		Args:       []string{p.Dir},
		Privileged: true,
	})
	if err != nil {
		return fmt.Errorf("umount %s: %w", p.Dir, err)
	}

	return nil
}

// WithMount mounts source read-only at dir and runs fn with the mount
// directory.
//
// Unmount is attempted once the mount was attempted, even if mounting failed.
// It runs even if ctx is cancelled. An unmount error is joined with the mount
// or fn error.
func WithMount(
	ctx context.Context,
	runner host.Runner,
	source string,
	dir string,
	fn func(dir string) error,
) (err error) {
	point, err := Mount(ctx, runner, source, dir)

	defer func() {
		err = errors.Join(err, point.Unmount(context.WithoutCancel(ctx)))
	}()

	if err != nil {
		return err
	}

	return fn(point.Dir)
}
