// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bytes"
	"regexp"
	"sync/atomic"
)

// Lines longer than this are not inspected any further.
const maxConsoleLineLength = 4096

var panicRE = regexp.MustCompile(`Kernel panic - not syncing: `)

// panicDetector is an [io.Writer] that inspects serial console output line by
// line and records if the guest kernel panicked.
//
// Output is passed on unchanged by the caller, so partial lines like login
// prompts are not delayed.
type panicDetector struct {
	line     []byte
	panicked atomic.Bool
}

// Write implements [io.Writer].
func (d *panicDetector) Write(p []byte) (int, error) {
	data := p

	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			d.appendLine(data)
			break
		}

		d.appendLine(data[:idx])
		d.inspect()

		data = data[idx+1:]
	}

	return len(p), nil
}

func (d *panicDetector) appendLine(data []byte) {
	room := maxConsoleLineLength - len(d.line)
	if room <= 0 {
		return
	}

	d.line = append(d.line, data[:min(room, len(data))]...)
}

func (d *panicDetector) inspect() {
	if panicRE.Match(d.line) {
		d.panicked.Store(true)
	}

	d.line = d.line[:0]
}

// Panicked reports whether a kernel panic message has been seen.
func (d *panicDetector) Panicked() bool {
	return d.panicked.Load()
}
