// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pirun boots Raspberry Pi disk images in QEMU.
//
// A run unpacks the image archive into the working directory, copies the
// kernel and device tree blob from the image's boot partition and boots the
// image with them. The boot partition is accessed via a loopback device and a
// read-only mount, both of which require root privileges on the host. The
// working directory is not cleaned up, so subsequent runs reuse the extracted
// image.
package pirun
