// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aibor/pirun/internal/host"
)

const losetup = "losetup"

// Device is an attached loop device.
type Device struct {
	path   string
	runner host.Runner
}

// Path returns the device path, like /dev/loop0.
func (d *Device) Path() string {
	return d.path
}

// Partition returns the block device path of the partition with the given
// number.
func (d *Device) Partition(num int) string {
	return d.path + "p" + strconv.Itoa(num)
}

// Detach detaches the device.
func (d *Device) Detach(ctx context.Context) error {
	return Detach(ctx, d.runner, d.path)
}

// Attach attaches the given image file to the next free loop device and scans
// its partitions.
//
// If it fails, a [LoopbackCreationError] is returned. If losetup printed a
// device before failing, it is detached first.
func Attach(
	ctx context.Context,
	runner host.Runner,
	image string,
) (*Device, error) {
	slog.Info("Creating loopback device", slog.String("image", image))

	out, err := runner.Run(ctx, host.Command{
		Name:       losetup,
		Args:       []string{"-f", "--show", "-P", image},
		Privileged: true,
	})

	device := strings.TrimSpace(out)

	switch {
	case err != nil:
	case device == "":
		err = ErrNoDevice
	case !wellFormed(device):
		err = fmt.Errorf("%w: %q", ErrMalformedDevice, device)
	}

	if err != nil {
		if wellFormed(device) {
			detachErr := Detach(context.WithoutCancel(ctx), runner, device)
			err = errors.Join(err, detachErr)
		}

		return nil, &LoopbackCreationError{Image: image, Err: err}
	}

	slog.Info("Created loopback device", slog.String("device", device))

	return &Device{path: device, runner: runner}, nil
}

// Detach detaches the given loop device.
//
// The device must be a single line identifier. Otherwise,
// [ErrMalformedDevice] is returned and nothing is run.
func Detach(ctx context.Context, runner host.Runner, device string) error {
	if !wellFormed(device) {
		return fmt.Errorf("%w: %q", ErrMalformedDevice, device)
	}

	slog.Debug("Removing loopback device", slog.String("device", device))

	_, err := runner.Run(ctx, host.Command{
		Name:       losetup,
		Args:       []string{"-d", device},
		Privileged: true,
	})
	if err != nil {
		return fmt.Errorf("detach %s: %w", device, err)
	}

	return nil
}

// WithDevice attaches the image, runs fn with the device and detaches the
// device again, no matter if fn failed. Detach runs even if ctx is cancelled.
// A detach error is joined with the error returned by fn.
func WithDevice(
	ctx context.Context,
	runner host.Runner,
	image string,
	fn func(*Device) error,
) (err error) {
	device, err := Attach(ctx, runner, image)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, device.Detach(context.WithoutCancel(ctx)))
	}()

	return fn(device)
}

func wellFormed(device string) bool {
	return device != "" && !strings.ContainsAny(device, "\r\n")
}
