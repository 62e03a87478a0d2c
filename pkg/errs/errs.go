// Package errs provides structured error handling, loosely following the
// upspin.io error design: errors carry an operation, a kind and a wrapped
// cause, and unwrap all the way down.
package errs

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as the package and method,
// such as "stationService.CreateStation".
type Op string

// Kind defines the kind of error this is.
type Kind uint8

const (
	Other           Kind = iota // Unclassified error
	Internal                    // Internal error or inconsistency
	Database                    // Error from the database or driver
	Exist                       // Item already exists
	NotExist                    // Item does not exist
	InvalidRequest              // Invalid request, such as a malformed body
	Validation                  // Input failed validation
	Unauthenticated             // Caller is not authenticated
	Unauthorized                // Caller is authenticated but not allowed
	IO                          // External I/O error, such as a network failure
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Internal:
		return "internal error"
	case Database:
		return "database error"
	case Exist:
		return "item already exists"
	case NotExist:
		return "item does not exist"
	case InvalidRequest:
		return "invalid request"
	case Validation:
		return "input validation error"
	case Unauthenticated:
		return "unauthenticated request"
	case Unauthorized:
		return "unauthorized request"
	case IO:
		return "I/O error"
	}
	return "unknown error kind"
}

// Error is the type that implements the error interface. An Error value may
// leave some fields unset.
type Error struct {
	Op   Op
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an error value from its arguments. There must be at least one
// argument or E panics. The type of each argument determines its meaning:
//
//	errs.Op     the operation being performed
//	errs.Kind   the class of error
//	string      treated as an error message
//	error       the underlying error, wrapped
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errs.E with no arguments")
	}

	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case string:
			e.Err = errors.New(arg)
		case *Error:
			copied := *arg
			e.Err = &copied
		case error:
			e.Err = arg
		default:
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// Inherit the kind from the wrapped error when not set here, and drop
	// the inner kind when it repeats ours, so the chain stays terse.
	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	} else if prev.Kind == e.Kind {
		prev.Kind = Other
	}

	return e
}

// KindIs reports whether any error in the chain is of the given kind.
func KindIs(kind Kind, err error) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind == kind
		}
		err = e.Err
	}
	return false
}

// OpStack returns the stack of operations recorded in the error chain,
// outermost first.
func OpStack(err error) []string {
	var ops []string

	var e *Error
	for errors.As(err, &e) {
		if e.Op != "" {
			ops = append(ops, string(e.Op))
		}
		err = e.Err
	}

	return ops
}

// Message returns the innermost human-readable message in the chain.
func Message(err error) string {
	for {
		e, ok := err.(*Error)
		if !ok || e.Err == nil {
			return err.Error()
		}
		err = e.Err
	}
}
