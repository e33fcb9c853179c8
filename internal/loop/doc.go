// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package loop attaches disk image files as loop devices with partition
// scanning enabled, so the partitions of the image are available as block
// devices like /dev/loop0p1.
//
// Devices are attached and detached with the losetup tool.
package loop
