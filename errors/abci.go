package errors

import (
	"errors"
	"fmt"
)

// SuccessABCICode is the code of a successful response.
const SuccessABCICode = 0

// Errors that do not wrap a registered root are internal. They share
// one code, and their message is hidden outside of debug mode.
const (
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// ABCIInfo returns the code and log of the response reporting err. The
// message of internal errors and recovered panics is shown only in debug
// mode, which also adds stack traces.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalCode || code == ErrPanic.code:
		return code, internalLog
	default:
		return code, err.Error()
	}
}

// ABCIError restores an error from a failed response, so that the root
// of a registered code can be tested with Is by a client.
func ABCIError(code uint32, log string) error {
	if root := usedCodes[code]; root != nil {
		return Wrap(root, log)
	}
	return Wrapf(errors.New(internalLog), "code %d: %s", code, log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the outermost error in the chain that
// declares one.
func abciCode(err error) uint32 {
	code := internalCode
	walk(err, func(cause error) bool {
		c, ok := cause.(coder)
		if ok {
			code = c.ABCICode()
		}
		return ok
	})
	return code
}
