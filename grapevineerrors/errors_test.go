package grapevineerrors

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestErrorFormatsWithoutCause(t *testing.T) {
	c := qt.New(t)
	err := MalformedInputf("degree %d exceeds maximum", 9)
	c.Assert(err.Error(), qt.Equals, "malformed_input: degree 9 exceeds maximum")
}

func TestErrorFormatsWithCause(t *testing.T) {
	c := qt.New(t)
	cause := errors.New("boom")
	err := Wrap(ProtocolViolation, cause, "load public params")
	c.Assert(err.Error(), qt.Equals, "protocol_violation: load public params: boom")
	c.Assert(errors.Unwrap(err), qt.Equals, cause)
}

func TestIsMatchesKind(t *testing.T) {
	c := qt.New(t)
	err := ConstraintViolationf("auth signature does not verify")
	c.Assert(Is(err, ConstraintViolation), qt.IsTrue)
	c.Assert(Is(err, StateMismatch), qt.IsFalse)
}

func TestIsFalseForPlainErrors(t *testing.T) {
	c := qt.New(t)
	c.Assert(Is(errors.New("plain"), MalformedInput), qt.IsFalse)
}
