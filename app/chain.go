package app

import (
	"reflect"

	"github.com/iov-one/capcall"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator runs first.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     utils.NewSavepoint().OnDeliver(),
//     ledger.NewDispatcher(),
//   ).WithHandler(router)
type Decorators struct {
	chain []capcall.Decorator
}

// ChainDecorators returns the given decorators in order. Nil entries are
// skipped, so optional decorators can be passed unconditionally.
func ChainDecorators(chain ...capcall.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a copy with more decorators appended. The receiver is
// left unchanged.
func (d Decorators) Chain(more ...capcall.Decorator) Decorators {
	chain := make([]capcall.Decorator, 0, len(d.chain)+len(more))
	chain = append(chain, d.chain...)
	for _, dec := range more {
		if !isNil(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

// isNil is true for a nil interface and for a typed nil pointer.
func isNil(d capcall.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain with h.
func (d Decorators) WithHandler(h capcall.Handler) capcall.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link runs one decorator around the rest of the chain.
type link struct {
	dec  capcall.Decorator
	next capcall.Handler
}

var _ capcall.Handler = link{}

func (l link) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
