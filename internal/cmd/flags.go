// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/aibor/pirun/internal/boot"
	"github.com/aibor/pirun/internal/pirun"
	"github.com/aibor/pirun/internal/qemu"
	"github.com/spf13/viper"
)

const (
	name = "pirun"

	usageMessage = `Usage of 'pirun':
    pirun [flags...] image-archive

Boots a Raspberry Pi disk image in QEMU. The archive may be a .zip, .zst or .gz
compressed image, or a raw .img. The kernel and device tree blob are copied
from the image's boot partition. This requires root privileges for losetup,
mount, umount and cp, which are run with sudo by default.

The kernel command line is read from <workdir>/boot/cmdline.txt. Either
provide it there or use -copyCmdline to copy it from the image as well.

Example:
    pirun -workdir=/tmp/qemu-exec ~/Downloads/raspbian.zip

Flag defaults can be set in pirun.yaml in the current directory or in
$HOME/.config/pirun, and by environment variables PIRUN_WORKDIR, PIRUN_BOARD,
PIRUN_QEMU_BIN, PIRUN_PRIVILEGE, PIRUN_COPY_CMDLINE, PIRUN_SKIP_PROBE,
PIRUN_SERIAL_LOG and PIRUN_DEBUG.
`
)

type flags struct {
	spec    pirun.Spec
	flagSet *flag.FlagSet

	version bool
	debug   bool
}

func newFlags(cfg *viper.Viper, output io.Writer) (*flags, error) {
	flags := &flags{
		spec: pirun.Spec{
			WorkDir:     cfg.GetString(keyWorkDir),
			Board:       cfg.GetString(keyBoard),
			QemuBin:     cfg.GetString(keyQemuBin),
			CopyCmdline: cfg.GetBool(keyCopyCmdline),
			SkipProbe:   cfg.GetBool(keySkipProbe),
			SerialLog:   cfg.GetString(keySerialLog),
		},
		debug: cfg.GetBool(keyDebug),
	}

	err := flags.spec.Escalation.Set(cfg.GetString(keyPrivilege))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", keyPrivilege, err)
	}

	flags.initFlagset(output)

	return flags, nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.StringVar(
		&f.spec.WorkDir,
		"workdir",
		f.spec.WorkDir,
		"working directory the image is extracted to",
	)

	flagSet.StringVar(
		&f.spec.Board,
		"board",
		f.spec.Board,
		"board to emulate: "+strings.Join(boot.BoardNames(), ", "),
	)

	flagSet.StringVar(
		&f.spec.QemuBin,
		"qemuBin",
		f.spec.QemuBin,
		"QEMU binary to use (default depends on board: qemu-system-*)",
	)

	flagSet.Var(
		&f.spec.Escalation,
		"privilege",
		"privilege escalation for losetup, mount, umount and cp: sudo, none, auto",
	)

	flagSet.BoolVar(
		&f.spec.CopyCmdline,
		"copyCmdline",
		f.spec.CopyCmdline,
		"copy cmdline.txt from the boot partition as well",
	)

	flagSet.BoolVar(
		&f.spec.SkipProbe,
		"skipProbe",
		f.spec.SkipProbe,
		"do not check the image's partition table before attaching it",
	)

	flagSet.StringVar(
		&f.spec.SerialLog,
		"serialLog",
		f.spec.SerialLog,
		"file the guest's serial output is appended to",
	)

	flagSet.Var(
		(*qemu.ArgumentList)(&f.spec.QemuArgs),
		"qemuArg",
		"additional QEMU argument in the form name=value. Flag may be used "+
			"more than once. Empty value clears the list.",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// ParseArgs parses the arguments without the program name.
func (f *flags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	switch len(positionalArgs) {
	case 0:
		return f.fail("no image archive given", nil)
	case 1:
	default:
		return f.fail("only one image archive supported", nil)
	}

	if positionalArgs[0] == "" {
		return f.fail("image archive path", pirun.ErrEmptyArchive)
	}

	// The archive tool runs in the working directory, so relative paths
	// would not resolve.
	archive, err := filepath.Abs(positionalArgs[0])
	if err != nil {
		return f.fail("image archive path", err)
	}

	f.spec.Archive = archive

	return nil
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
