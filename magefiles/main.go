// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

var env map[string]string

func init() {
	env = make(map[string]string)

	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}

	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}

	env["GOBIN"] = gobin
}

// Install pirun to gobin directory.
func Install() error {
	path := filepath.Join(env["GOBIN"], "pirun")

	changed, err := target.Dir(path, "cmd", "internal", "go.mod")
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	return sh.RunWith(env, "go", "install", "-trimpath", "./cmd/pirun")
}

// Run unit tests with race detector and coverage.
func Test() error {
	return sh.RunV(
		"go", "test",
		"-race",
		"-cover",
		"-coverprofile", "/tmp/pirun-cover.out",
		"./...",
	)
}

// Run govulncheck from the tools module.
func Vulncheck() error {
	return sh.RunV(
		"go", "tool",
		"-modfile", ".github/workflows/go.mod",
		"govulncheck", "./...",
	)
}

// Run tests and install.
func All() {
	mg.SerialDeps(Test, Install)
}
