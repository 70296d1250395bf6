package utils

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// Recovery turns a panic of the inner chain into an ErrPanic, so that a
// faulty handler fails its own transaction and not the node.
type Recovery struct{}

var _ capcall.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Checker) (res *capcall.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, panicError(tx, r)
		}
	}()
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Deliverer) (res *capcall.DeliverResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, panicError(tx, r)
		}
	}()
	return next.Deliver(ctx, db, tx)
}

// panicError records the message path along with the panic value. Both
// are redacted from client responses outside of debug mode.
func panicError(tx capcall.Tx, value interface{}) error {
	return errors.Wrapf(errors.ErrPanic, "%s: %v", capcall.GetPath(tx), value)
}
