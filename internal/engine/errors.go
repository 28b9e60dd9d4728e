package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/acegraph/internal/ir"
)

// Error is a contract failure detected by a graph operation.
//
// Construction errors include:
//   - AC arity: fewer than two arguments to AddACNode
//   - Unknown ID: an argument that was never allocated by this graph
//
// An operation that returns an Error has not mutated the graph.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Session identifies the graph.
	Session string

	// IDs lists the offending identifiers, if any.
	IDs []ir.ID
}

// ErrorCode categorizes graph errors.
type ErrorCode string

const (
	// ErrCodeACArity indicates an AC node with fewer than two arguments.
	ErrCodeACArity ErrorCode = "AC_ARITY"

	// ErrCodeUnknownID indicates an identifier not allocated by this graph.
	ErrCodeUnknownID ErrorCode = "UNKNOWN_ID"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Session != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConstructionError returns true if the error is a graph contract failure.
// Uses errors.As to handle wrapped errors.
func IsConstructionError(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}

// HasCode returns true if the error is a graph Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// newArityError creates an Error for an undersized AC node.
func newArityError(session string, n int) *Error {
	return &Error{
		Code:    ErrCodeACArity,
		Message: fmt.Sprintf("AC node needs at least 2 arguments, got %d", n),
		Session: session,
	}
}

// newUnknownIDError creates an Error for identifiers this graph never allocated.
func newUnknownIDError(session string, ids []ir.ID) *Error {
	return &Error{
		Code:    ErrCodeUnknownID,
		Message: fmt.Sprintf("unknown identifiers %v", ids),
		Session: session,
		IDs:     ids,
	}
}
