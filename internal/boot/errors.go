// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import "errors"

var (
	// ErrUnknownBoard is returned if a board name is not known.
	ErrUnknownBoard = errors.New("unknown board")

	// ErrNoBootPartition is returned if the image does not have a first
	// partition.
	ErrNoBootPartition = errors.New("image has no boot partition")
)
