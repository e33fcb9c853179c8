// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aibor/pirun/internal/boot"
	"github.com/aibor/pirun/internal/host"
	"github.com/aibor/pirun/internal/pirun"
	"github.com/spf13/viper"
)

const (
	configName = "pirun"
	configType = "yaml"
	envPrefix  = "PIRUN"
)

// Config keys. Environment variables are the upper case keys prefixed with
// "PIRUN_", like PIRUN_QEMU_BIN.
const (
	keyWorkDir     = "workdir"
	keyBoard       = "board"
	keyQemuBin     = "qemu_bin"
	keyPrivilege   = "privilege"
	keyCopyCmdline = "copy_cmdline"
	keySkipProbe   = "skip_probe"
	keySerialLog   = "serial_log"
	keyDebug       = "debug"
)

// defaultConfigDirs returns the directories searched for pirun.yaml.
func defaultConfigDirs() []string {
	dirs := []string{"."}

	home, err := os.UserHomeDir()
	if err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", configName))
	}

	return dirs
}

// newConfig returns the flag defaults. Values from environment variables take
// precedence over values from the first config file found in dirs, which
// take precedence over the built-in defaults. A missing config file is not an
// error.
func newConfig(dirs ...string) (*viper.Viper, error) {
	cfg := viper.New()

	cfg.SetDefault(keyWorkDir, pirun.DefaultWorkDir)
	cfg.SetDefault(keyBoard, boot.DefaultBoard)
	cfg.SetDefault(keyQemuBin, "")
	cfg.SetDefault(keyPrivilege, string(host.EscalationSudo))
	cfg.SetDefault(keyCopyCmdline, false)
	cfg.SetDefault(keySkipProbe, false)
	cfg.SetDefault(keySerialLog, "")
	cfg.SetDefault(keyDebug, false)

	cfg.SetEnvPrefix(envPrefix)
	cfg.AutomaticEnv()

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)

	for _, dir := range dirs {
		cfg.AddConfigPath(dir)
	}

	err := cfg.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return cfg, nil
}
