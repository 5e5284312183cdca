package cli

import (
	"errors"
	"fmt"
)

// Kind classifies a failure at the process boundary.
type Kind int

const (
	// KindUnknown is reported for errors that were never classified.
	KindUnknown Kind = iota
	// InvalidArguments covers a wrong argument count, a bad thread count or
	// an unknown flag.
	InvalidArguments
	// InputNotFound covers an input file that is missing or unreadable.
	InputNotFound
	// OutputNotWritable covers an output path that cannot be created or
	// replaced.
	OutputNotWritable
	// MalformedInput covers an input file whose content has the wrong shape.
	MalformedInput
	// NotConverged is reported when a configured refinement cap is reached.
	NotConverged
)

func (k Kind) String() string {
	switch k {
	case InvalidArguments:
		return "invalid arguments"
	case InputNotFound:
		return "input not found"
	case OutputNotWritable:
		return "output not writable"
	case MalformedInput:
		return "malformed input"
	case NotConverged:
		return "not converged"
	default:
		return "error"
	}
}

// Error is a classified boundary failure.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func invalidArgs(format string, args ...any) *Error {
	return newError(InvalidArguments, "", "", fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case KindOf(err) == InvalidArguments:
		return ExitUsage
	default:
		return ExitFailure
	}
}
