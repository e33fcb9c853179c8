// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package host runs the external tools pirun depends on, like losetup, mount
// and cp. Commands that need root privileges are prefixed according to the
// configured [Escalation] strategy.
package host
