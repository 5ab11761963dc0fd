package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete Error.
type appError struct {
	msg           string  // primary error message
	base          error   // template this error was derived from
	wrappedErrors []error // additional wrapped errors
	exitCode      int     // process exit code
	expandError   bool    // controls ErrorAll expansion
	prefix        string  // optional message prefix
}

func (e *appError) Error() string {
	if e.prefix != "" {
		return e.prefix + ": " + e.msg
	}
	return e.msg
}

// ErrorAll returns the message followed by every wrapped error when expandError is set.
func (e *appError) ErrorAll() string {
	if !e.expandError {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		if err == error(e.base) {
			continue
		}
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		exitCode:      e.exitCode,
		expandError:   e.expandError,
	}
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:         msg,
		base:        e,
		exitCode:    e.exitCode,
		expandError: e.expandError,
	}
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, errs...),
		exitCode:      e.exitCode,
		expandError:   e.expandError,
	}
}

func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: append([]error{e}, errs...),
		exitCode:      e.exitCode,
		expandError:   e.expandError,
		prefix:        e.prefix,
	}
}

func (e *appError) Prefix(p string) Error {
	cp := *e
	cp.prefix = p
	return &cp
}

func (e *appError) SetExpandError(flag bool) Error {
	cp := *e
	cp.expandError = flag
	return &cp
}

func (e *appError) SetExitCode(code int) Error {
	cp := *e
	cp.exitCode = code
	return &cp
}

func (e *appError) ExitCode() int {
	return e.exitCode
}

// Is reports a match against the base chain or any wrapped error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if err == error(e) {
			continue
		}
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root-level Error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// ExitCodeOf returns the exit code carried by the first Error in err's chain,
// or 1 if err is non-nil and carries none.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ae Error
	if errors.As(err, &ae) && ae.ExitCode() != 0 {
		return ae.ExitCode()
	}
	return 1
}
