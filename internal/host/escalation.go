// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Escalation is the strategy used to run privileged commands.
type Escalation string

const (
	// EscalationSudo prefixes privileged commands with sudo.
	EscalationSudo Escalation = "sudo"

	// EscalationNone runs privileged commands as is. Use it if pirun runs
	// as root already or for tests.
	EscalationNone Escalation = "none"

	// EscalationAuto uses sudo only if the effective user is not root.
	EscalationAuto Escalation = "auto"
)

var geteuid = unix.Geteuid

// String implements [fmt.Stringer].
func (e Escalation) String() string {
	return string(e)
}

// MarshalText implements [encoding.TextMarshaler].
func (e Escalation) MarshalText() ([]byte, error) {
	return []byte(e), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (e *Escalation) UnmarshalText(text []byte) error {
	escalation := Escalation(text)

	switch escalation {
	case EscalationSudo, EscalationNone, EscalationAuto:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEscalation, text)
	}

	*e = escalation

	return nil
}

// Set implements [flag.Value].
func (e *Escalation) Set(s string) error {
	return e.UnmarshalText([]byte(s))
}

// Prefix returns the command prefix for privileged commands.
func (e Escalation) Prefix() []string {
	switch e {
	case EscalationNone:
		return nil
	case EscalationAuto:
		if geteuid() == 0 {
			return nil
		}
	}

	return []string{"sudo"}
}
