// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package operr classifies operation-aborting errors. Every error produced
// by a ledger operation carries one of the kinds below; the runtime reverts
// the operation's checkpoint whenever one surfaces.
package operr

import (
	"errors"
	"fmt"
)

// Kind is the class of an operation failure.
type Kind uint8

const (
	// KindUnknown marks errors that did not originate from an operation rule,
	// e.g. storage access failures.
	KindUnknown Kind = iota
	// KindValidation malformed or out-of-range input.
	KindValidation
	// KindPrecondition current state forbids the operation.
	KindPrecondition
	// KindAuthorization wrong signer or owner mismatch.
	KindAuthorization
	// KindArithmetic overflow or negative duration.
	KindArithmetic
	// KindStateConsistency stored records are missing or malformed in a way
	// normal operation can never produce.
	KindStateConsistency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindAuthorization:
		return "authorization"
	case KindArithmetic:
		return "arithmetic"
	case KindStateConsistency:
		return "state-consistency"
	}
	return "unknown"
}

// Error is an operation-aborting error with a kind.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind returns the error's kind.
func (e *Error) Kind() Kind { return e.kind }

// New creates an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Validation creates a validation error.
func Validation(msg string) error { return New(KindValidation, msg) }

// Validationf creates a formatted validation error.
func Validationf(format string, args ...any) error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Precondition creates a precondition error.
func Precondition(msg string) error { return New(KindPrecondition, msg) }

// Authorization creates an authorization error.
func Authorization(msg string) error { return New(KindAuthorization, msg) }

// Arithmetic creates an arithmetic error.
func Arithmetic(msg string) error { return New(KindArithmetic, msg) }

// StateConsistency creates a state-consistency error.
func StateConsistency(msg string) error { return New(KindStateConsistency, msg) }

// KindOf extracts the kind of err, unwrapping as needed.
// Errors without a kind report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
