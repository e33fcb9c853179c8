// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a QEMU argument with or without value.
//
// Its name might be marked to be unique in a list of arguments.
type Argument struct {
	name          string
	value         string
	hasValue      bool
	nonUniqueName bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	if !a.hasValue {
		return "-" + a.name
	}

	return "-" + a.name + " " + a.value
}

// Name returns the name of the [Argument].
func (a Argument) Name() string {
	return a.name
}

// Value returns the value of the [Argument].
func (a Argument) Value() string {
	return a.value
}

// UniqueName returns if the name of the [Argument] must be unique in a list of
// arguments.
func (a Argument) UniqueName() bool {
	return !a.nonUniqueName
}

// Equal reports whether the [Argument]s collide.
//
// Arguments with different names never collide. If any of both is unique, the
// name is sufficient. Only if both are repeatable, the values are compared as
// well.
func (a Argument) Equal(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.nonUniqueName && other.nonUniqueName {
		return a.value == other.value
	}

	return true
}

// UniqueArg returns a new [Argument] with the given name that is marked as
// unique and so can be used in a list of arguments only once.
//
// If any value is given, it is passed even if empty.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:     name,
		value:    strings.Join(value, ","),
		hasValue: len(value) > 0,
	}
}

// RepeatableArg returns a new [Argument] with the given name that is not
// unique and so can be used in a list of arguments multiple times.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:          name,
		value:         strings.Join(value, ","),
		hasValue:      len(value) > 0,
		nonUniqueName: true,
	}
}

// ParseArgument parses a user provided argument of the form "name" or
// "name=value". The leading "-" of the name is optional. The value may
// contain further "=", like in "device=usb-net,netdev=net0".
//
// The returned [Argument] is repeatable.
func ParseArgument(s string) (Argument, error) {
	name, value, hasValue := strings.Cut(strings.TrimPrefix(s, "-"), "=")
	if name == "" {
		return Argument{}, &ArgumentError{"empty argument name: " + s}
	}

	if !hasValue {
		return RepeatableArg(name), nil
	}

	return RepeatableArg(name, value), nil
}

// BuildArgumentStrings compiles the [Argument]s into a slice of strings which
// can be used with [exec.Command].
//
// It returns an error if any name uniqueness constraints of any [Argument] is
// violated.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argStrings := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Equal); i != -1 {
			return nil, fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision,
				args[i].String(),
				arg.String(),
			)
		}

		argStrings = append(argStrings, "-"+arg.name)

		if arg.hasValue {
			argStrings = append(argStrings, arg.value)
		}
	}

	return argStrings, nil
}

// ArgumentList implements [flag.Value] for repeatable user provided
// arguments.
type ArgumentList []Argument

// String implements [flag.Value].
func (l *ArgumentList) String() string {
	if l == nil {
		return ""
	}

	s := make([]string, 0, len(*l))
	for _, arg := range *l {
		s = append(s, arg.String())
	}

	return strings.Join(s, " ")
}

// Set implements [flag.Value]. An empty value clears the list.
func (l *ArgumentList) Set(value string) error {
	if value == "" {
		*l = nil
		return nil
	}

	arg, err := ParseArgument(value)
	if err != nil {
		return err
	}

	*l = append(*l, arg)

	return nil
}
