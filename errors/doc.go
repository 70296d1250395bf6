/*
Package errors implements custom error interfaces for capcall.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary.

Four root errors carry the failure kinds every capital call operation can
report:

  ErrInput        the request is malformed: wrong deposit, bad or past due date
  ErrUnauthorized the caller is not allowed to perform the action
  ErrState        the action is not valid from the current status
  ErrExternal     a linked instance could not be queried or returned garbage

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf.
Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.
*/
package errors
