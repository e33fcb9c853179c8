// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loop

import (
	"errors"
)

var (
	// ErrNoDevice is returned if losetup succeeded but did not print a device.
	ErrNoDevice = errors.New("no loop device returned")

	// ErrMalformedDevice is returned if a device identifier is empty or spans
	// more than one line.
	ErrMalformedDevice = errors.New("malformed loop device identifier")
)

// LoopbackCreationError is returned if a loop device could not be attached.
type LoopbackCreationError struct {
	Image string
	Err   error
}

// Error implements the [error] interface.
func (e *LoopbackCreationError) Error() string {
	msg := "create loop device for " + e.Image
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*LoopbackCreationError) Is(other error) bool {
	_, ok := other.(*LoopbackCreationError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *LoopbackCreationError) Unwrap() error {
	return e.Err
}
