// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package boot

import (
	"errors"
	"fmt"

	diskfs "github.com/diskfs/go-diskfs"
)

// Partition is the location of a partition in a disk image.
type Partition struct {
	// Start offset in bytes.
	Start int64

	// Size in bytes.
	Size int64
}

// Probe reads the partition table of the given image and returns the
// location of the boot partition. The image is opened read-only, so no
// privileges are required.
func Probe(image string) (_ Partition, err error) {
	disk, err := diskfs.Open(image, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return Partition{}, fmt.Errorf("open image: %w", err)
	}

	defer func() {
		err = errors.Join(err, disk.Close())
	}()

	table, err := disk.GetPartitionTable()
	if err != nil {
		return Partition{}, fmt.Errorf("%w: %w", ErrNoBootPartition, err)
	}

	partitions := table.GetPartitions()
	if len(partitions) == 0 || partitions[0].GetSize() <= 0 {
		return Partition{}, ErrNoBootPartition
	}

	return Partition{
		Start: partitions[0].GetStart(),
		Size:  partitions[0].GetSize(),
	}, nil
}
