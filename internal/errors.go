package internal

import (
	"fmt"
	"sync"
)

// ErrCode is a runtime error code. Codes are comparable with errors.Is
// against an *Error carrying the same code.
type ErrCode int

// Error codes.
const (
	ErrNone ErrCode = iota
	ErrSyntax
	ErrNoMethod
	ErrPropReadOnly
	ErrPropWriteOnly
	ErrConversion
	ErrOverflow
	ErrBadFormat
	ErrNoObject
	ErrBadArgument
	ErrWrongArgs
	ErrBadIndex
)

var errText = [...]string{
	ErrNone:          "no error",
	ErrSyntax:        "syntax error",
	ErrNoMethod:      "property or method not found",
	ErrPropReadOnly:  "property is read-only",
	ErrPropWriteOnly: "property is write-only",
	ErrConversion:    "data type mismatch",
	ErrOverflow:      "overflow",
	ErrBadFormat:     "bad file format",
	ErrNoObject:      "object variable not set",
	ErrBadArgument:   "invalid procedure call",
	ErrWrongArgs:     "wrong number of arguments",
	ErrBadIndex:      "index out of defined range",
}

func (c ErrCode) Error() string {
	if c >= 0 && int(c) < len(errText) {
		return errText[c]
	}
	return fmt.Sprintf("sbx error %d", int(c))
}

// Error is a runtime error with the name or other text it concerns.
type Error struct {
	Code    ErrCode
	Context string
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Code.Error()
	}
	return e.Code.Error() + ": " + e.Context
}

// Is reports whether target is e's code or an *Error with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}
	return false
}

// Unwrap returns the error code.
func (e *Error) Unwrap() error {
	return e.Code
}

// errSlot is the process-wide error status. Only the first error raised
// after a reset is kept.
var errSlot struct {
	sync.Mutex
	err *Error
}

// SetError records an error in the process-wide error slot unless an error
// is already pending, and returns the recorded-or-new error value for the
// caller to return.
func SetError(code ErrCode, context string) *Error {
	e := &Error{Code: code, Context: context}
	if code == ErrNone {
		return nil
	}
	errSlot.Lock()
	if errSlot.err == nil {
		errSlot.err = e
	}
	errSlot.Unlock()
	logger().Debug("sbx error", "code", int(code), "err", e.Error())
	return e
}

// LastError returns the pending error, or nil.
func LastError() *Error {
	errSlot.Lock()
	defer errSlot.Unlock()
	return errSlot.err
}

// IsError reports whether an error is pending.
func IsError() bool {
	return LastError() != nil
}

// ResetError clears the pending error.
func ResetError() {
	errSlot.Lock()
	errSlot.err = nil
	errSlot.Unlock()
}

// formatError creates an ErrBadFormat error for stream decoding problems.
func formatError(format string, args ...interface{}) *Error {
	return &Error{Code: ErrBadFormat, Context: fmt.Sprintf(format, args...)}
}
