// Package grapevineerrors defines the error kinds surfaced by every layer of
// the core: field and hash primitives, the identity layer, the folding
// circuit, the IVC driver, and the proof session manager. Callers branch on
// Kind rather than string-matching messages.
package grapevineerrors

import (
	"errors"
	"fmt"
)

// Kind classifies an *Error into one of the five failure modes the core can
// produce.
type Kind string

const (
	// MalformedInput marks a request that could not even be parsed into a
	// well-formed statement: wrong field width, missing bytes, bad hex.
	MalformedInput Kind = "malformed_input"
	// ConstraintViolation marks a well-formed request whose values fail one
	// of the circuit's algebraic invariants (relation key not bound to the
	// prior state, non-zero input on an identity step, signature that
	// doesn't verify).
	ConstraintViolation Kind = "constraint_violation"
	// StateMismatch marks a request whose StepState does not match the
	// caller's expectations (folding a proof onto the wrong prior state).
	StateMismatch Kind = "state_mismatch"
	// VerificationFailure marks a proof that failed cryptographic
	// verification even though its shape was well-formed.
	VerificationFailure Kind = "verification_failure"
	// ProtocolViolation marks a caller trying to perform an operation the
	// protocol does not permit at the current step (e.g. reusing a spent
	// nullifier, or extending with an authorization issued to someone else).
	ProtocolViolation Kind = "protocol_violation"
)

// Error is the error type returned by every exported operation in this
// module. It always carries a Kind so callers can decide whether to retry,
// surface the message verbatim, or treat it as a bug.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind that wraps a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := newf(kind, format, args...)
	e.err = cause
	return e
}

func MalformedInputf(format string, args ...any) *Error {
	return newf(MalformedInput, format, args...)
}

func ConstraintViolationf(format string, args ...any) *Error {
	return newf(ConstraintViolation, format, args...)
}

func StateMismatchf(format string, args ...any) *Error {
	return newf(StateMismatch, format, args...)
}

func VerificationFailuref(format string, args ...any) *Error {
	return newf(VerificationFailure, format, args...)
}

func ProtocolViolationf(format string, args ...any) *Error {
	return newf(ProtocolViolation, format, args...)
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
