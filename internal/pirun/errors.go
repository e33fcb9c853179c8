// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pirun

import "errors"

var (
	// ErrEmptyArchive is returned if no image archive is given.
	ErrEmptyArchive = errors.New("no image archive given")

	// ErrEmptyWorkDir is returned if no working directory is given.
	ErrEmptyWorkDir = errors.New("no working directory given")
)
