package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors of the ledger. The code of the root is the ABCI code of the
// failed response, so clients can tell the kinds apart.
var (
	// ErrUnauthorized is returned when the caller is not one of the
	// identities allowed to act on an instance, or when an asset cannot
	// be minted.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when an instance, wallet or query handler
	// does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned when a message cannot be decoded.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned when a model cannot be serialized or fails
	// its validation before being saved.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a key is created twice.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned on code paths that correct wiring never
	// reaches.
	ErrHuman = Register(7, "coding error")

	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an action is not valid from the current
	// status of an instance.
	ErrState = Register(10, "invalid state")

	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when a wallet holds less than the
	// amount it has to pay.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrAmount is returned for an amount that is not acceptable, such as
	// a mint over the max supply.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is the validation failure kind: a missing or mismatched
	// deposit, a malformed or past due date.
	ErrInput = Register(14, "invalid input")

	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrExternal is returned when a linked instance could not be queried
	// or returned data that cannot be interpreted. Nothing else uses it.
	ErrExternal = Register(17, "external call failed")

	// ErrCurrency is returned for an invalid denomination or one that
	// does not match the expected asset.
	ErrCurrency = Register(18, "invalid currency")

	// ErrDatabase is returned when the underlying store fails.
	ErrDatabase = Register(19, "database")

	// ErrPanic wraps a recovered panic. Its message is never shown to
	// clients outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// usedCodes maps each registered code to its root. Code 1 is reserved
// for errors that are not registered.
var usedCodes = map[uint32]*Error{1: nil}

// Register declares a new root error. Registering a code twice panics,
// so it must only be called during program initialization.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("code %d already registered as %q", code, prev))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap one of them.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode is the code of the response when e is the root cause.
func (e Error) ABCICode() uint32 {
	return e.code
}

// Newf wraps e with a formatted description.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is e or wraps it. A nil root matches only a nil
// error, including a typed nil pointer.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNil(err)
	}
	return walk(err, func(cause error) bool { return cause == e })
}

// Wrap adds a description to err. A stack trace is recorded on the first
// wrap of an error. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace as well for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	st := stackTrace(e.parent)
	if verb != 'v' || !s.Flag('+') || st == nil {
		fmt.Fprint(s, e.Error())
		return
	}
	fmt.Fprintf(s, "%s\n%+v", e.Error(), st.StackTrace())
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// walk calls fn on err and on each error it wraps, outermost first, until
// fn returns true. It reports whether fn did.
func walk(err error, fn func(error) bool) bool {
	for err != nil {
		if fn(err) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// stackTrace returns the outermost error carrying a stack trace, or nil.
func stackTrace(err error) stackTracer {
	var st stackTracer
	walk(err, func(cause error) bool {
		st, _ = cause.(stackTracer)
		return st != nil
	})
	return st
}

// isNil is true for nil and for a typed nil pointer.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
