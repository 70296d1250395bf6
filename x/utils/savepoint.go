package utils

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// Savepoint runs the rest of the chain on its own cache layer. The layer
// reaches the parent store only when the transaction succeeds, so a
// rejected message leaves instances and wallets untouched.
//
// A new Savepoint is disabled. Enable it with OnCheck and OnDeliver.
type Savepoint struct {
	check   bool
	deliver bool
}

var _ capcall.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that also isolates CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

// OnDeliver returns a copy that also isolates DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Checker) (*capcall.CheckResult, error) {
	layer, done := openLayer(db, s.check)
	res, err := next.Check(ctx, layer, tx)
	if err := done(err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Deliverer) (*capcall.DeliverResult, error) {
	layer, done := openLayer(db, s.deliver)
	res, err := next.Deliver(ctx, layer, tx)
	if err := done(err); err != nil {
		return nil, err
	}
	return res, nil
}

// openLayer returns the store the chain runs on and a function closing
// it with the outcome of the chain. When disabled, or when db cannot be
// layered, db is used directly.
func openLayer(db capcall.KVStore, enabled bool) (capcall.KVStore, func(error) error) {
	cacheable, ok := db.(capcall.CacheableKVStore)
	if !enabled || !ok {
		return db, func(err error) error { return err }
	}
	layer := cacheable.CacheWrap()
	return layer, func(err error) error {
		if err != nil {
			layer.Discard()
			return err
		}
		return errors.Wrap(layer.Write(), "write savepoint")
	}
}
