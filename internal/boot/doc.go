// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package boot extracts the files QEMU needs to boot a Raspberry Pi disk image
// directly from the image's boot partition.
//
// The image is attached as loop device and its first partition is mounted
// read-only into a temporary directory. The kernel and the device tree blob
// are copied into the boot directory of the working directory. Unmount and
// detach always run, in this order, no matter at which step the extraction
// failed.
package boot
