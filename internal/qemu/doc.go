// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes and runs the QEMU command that boots a Raspberry Pi
// disk image. It expects the required QEMU binary to be present on the system.
//
// The guest's serial console is attached to stdio, so the terminal pirun is
// run in is the guest's console. Kernel, device tree blob and command line
// are taken from the boot directory prepared by the boot package. The disk
// image itself is attached as SD card.
package qemu
