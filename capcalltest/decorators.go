package capcalltest

import "github.com/iov-one/capcall"

// Decorator counts the transactions passing through it. A set CheckErr or
// DeliverErr is returned without calling the rest of the chain, which is
// how a rejecting decorator such as the ledger dispatcher behaves.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	calls int
}

var _ capcall.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Checker) (*capcall.CheckResult, error) {
	d.calls++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Deliverer) (*capcall.DeliverResult, error) {
	d.calls++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CallCount returns the number of Check and Deliver calls, failed or not.
func (d *Decorator) CallCount() int {
	return d.calls
}

// Decorate wraps h with the decorators. The first one is the outermost,
// as in app.ChainDecorators.
func Decorate(h capcall.Handler, decorators ...capcall.Decorator) capcall.Handler {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorated{dec: decorators[i], next: h}
	}
	return h
}

type decorated struct {
	dec  capcall.Decorator
	next capcall.Handler
}

func (d decorated) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
