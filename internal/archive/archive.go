// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive unpacks compressed disk images into a working directory.
//
// Zip archives are extracted with the unzip tool. Zstandard and gzip
// compressed images are decompressed in process. Existing files are never
// overwritten.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aibor/pirun/internal/host"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsupportedFormat is returned if the archive file extension is not
// known.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Format is an archive format, identified by file extension.
type Format string

// Supported formats.
const (
	FormatZip  Format = ".zip"
	FormatZstd Format = ".zst"
	FormatGzip Format = ".gz"
	FormatRaw  Format = ".img"
)

const imageExt = ".img"

// FormatOf returns the [Format] of the given archive path.
func FormatOf(archive string) (Format, error) {
	format := Format(strings.ToLower(filepath.Ext(archive)))

	switch format {
	case FormatZip, FormatZstd, FormatGzip, FormatRaw:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, archive)
	}
}

// ImagePath returns the path the disk image contained in the given archive is
// expected at after extraction into dir.
//
// The archive's extension is stripped and ".img" is appended unless the name
// ends with ".img" already. So, "raspbian.zip" and "raspbian.img.zst" both
// result in "raspbian.img".
func ImagePath(dir, archive string) string {
	name := filepath.Base(archive)

	switch Format(strings.ToLower(filepath.Ext(name))) {
	case FormatZip, FormatZstd, FormatGzip:
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	if !strings.HasSuffix(name, imageExt) {
		name += imageExt
	}

	return filepath.Join(dir, name)
}

// Extractor unpacks archives.
type Extractor struct {
	Runner host.Runner
}

// Extract unpacks the given archive into targetDir and returns the path of the
// disk image. Files already present in targetDir are not overwritten.
//
// Raw images are not copied. Their path is returned as is.
func (e *Extractor) Extract(
	ctx context.Context,
	archive string,
	targetDir string,
) (string, error) {
	format, err := FormatOf(archive)
	if err != nil {
		return "", err
	}

	if format == FormatRaw {
		return archive, nil
	}

	image := ImagePath(targetDir, archive)

	slog.Info("Unzipping image.", slog.String("archive", archive))

	switch format {
	case FormatZip:
		err = e.unzip(ctx, archive, targetDir)
	case FormatZstd:
		err = decompress(archive, image, newZstdReader)
	case FormatGzip:
		err = decompress(archive, image, newGzipReader)
	}

	if err != nil {
		return "", err
	}

	slog.Info("Done unzipping image.", slog.String("image", image))

	return image, nil
}

func (e *Extractor) unzip(ctx context.Context, archive, targetDir string) error {
	_, err := e.Runner.Run(ctx, host.Command{
		Name: "unzip",
		Args: []string{"-n", archive},
		Dir:  targetDir,
	})
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}

	return nil
}

type decompressorFunc func(io.Reader) (io.ReadCloser, error)

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return decoder.IOReadCloser(), nil
}

func newGzipReader(r io.Reader) (io.ReadCloser, error) {
	reader, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return reader, nil
}

// decompress writes the decompressed archive to image. It writes into a
// temporary file first that is renamed on success, so no partial image is
// left behind. An existing image is kept as is.
func decompress(archive, image string, newReader decompressorFunc) error {
	_, err := os.Stat(image)
	if err == nil {
		slog.Info("Image exists already, skip decompression",
			slog.String("image", image))

		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat image: %w", err)
	}

	src, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	reader, err := newReader(src)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	defer reader.Close()

	tmp, err := os.CreateTemp(filepath.Dir(image), ".pirun-image")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, err = io.Copy(tmp, reader)
	err = errors.Join(err, tmp.Close())

	if err == nil {
		err = os.Rename(tmp.Name(), image)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("decompress %s: %w", archive, err)
	}

	return nil
}
