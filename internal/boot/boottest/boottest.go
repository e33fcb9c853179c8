// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package boottest provides fake disk images and boot tools for tests.
package boottest

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/host/hosttest"
	"github.com/stretchr/testify/require"
)

const (
	sectorSize     = 512
	partStartLBA   = 2048
	partSectors    = 4096
	imageSize      = 4 << 20
	mbrTableOffset = 446
)

// Geometry of the partition written by [WriteImage], in bytes.
const (
	PartitionStart = partStartLBA * sectorSize
	PartitionSize  = partSectors * sectorSize
)

// WriteImage writes a sparse disk image with an MBR partition table. If
// withPartition is false, the image has no partition table at all.
func WriteImage(tb testing.TB, path string, withPartition bool) {
	tb.Helper()

	mbr := make([]byte, sectorSize)

	if withPartition {
		entry := mbr[mbrTableOffset : mbrTableOffset+16]
		entry[4] = 0x0c // W95 FAT32 (LBA)
		binary.LittleEndian.PutUint32(entry[8:], partStartLBA)
		binary.LittleEndian.PutUint32(entry[12:], partSectors)
		mbr[510] = 0x55
		mbr[511] = 0xaa
	}

	file, err := os.Create(path)
	require.NoError(tb, err)

	defer file.Close()

	_, err = file.Write(mbr)
	require.NoError(tb, err)
	require.NoError(tb, file.Truncate(imageSize))
}

// PartitionFiles is the content of the faked boot partition.
var PartitionFiles = []string{
	"bcm2709-rpi-2-b.dtb",
	"bcm2710-rpi-3-b.dtb",
	"cmdline.txt",
	"config.txt",
	"kernel7.img",
	"kernel8.img",
}

// Tools returns handlers that behave like the real tools on a
// partition containing [PartitionFiles]. Mount fills the mount dir, umount
// empties it again and cp copies the files.
func Tools() map[string]hosttest.HandlerFunc {
	return map[string]hosttest.HandlerFunc{
		"losetup": func(cmd host.Command) (string, error) {
			if cmd.Args[0] == "-d" {
				return "", nil
			}

			return "/dev/loop5\n", nil
		},
		"mount": func(cmd host.Command) (string, error) {
			dir := cmd.Args[len(cmd.Args)-1]
			for _, name := range PartitionFiles {
				err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600)
				if err != nil {
					return "", err
				}
			}

			return "", nil
		},
		"umount": func(cmd host.Command) (string, error) {
			dir := cmd.Args[0]

			entries, err := os.ReadDir(dir)
			if err != nil {
				return "", err
			}

			if len(entries) == 0 {
				return "", &host.CommandError{
					Args:     []string{"umount", dir},
					ExitCode: 32,
					Err:      errors.New("not mounted"),
				}
			}

			for _, entry := range entries {
				err := os.Remove(filepath.Join(dir, entry.Name()))
				if err != nil {
					return "", err
				}
			}

			return "", nil
		},
		"cp": func(cmd host.Command) (string, error) {
			dest := cmd.Args[len(cmd.Args)-1]
			for _, src := range cmd.Args[:len(cmd.Args)-1] {
				data, err := os.ReadFile(src)
				if err != nil {
					return "", err
				}

				err = os.WriteFile(filepath.Join(dest, filepath.Base(src)), data, 0o600)
				if err != nil {
					return "", err
				}
			}

			return "", nil
		},
	}
}
