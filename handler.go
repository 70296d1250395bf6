package capcall

import (
	"encoding/json"

	"github.com/iov-one/capcall/errors"
)

// Handler processes the messages of one path, such as committing capital
// to an instance.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a message before it enters the mempool. It runs on a
// layer that is never committed.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a message included in a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the rest of the chain, for example to log, to
// isolate the transaction in a savepoint or to execute the ledger
// instructions returned by the handler.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is where extensions register their handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state. Each extension reads its own key.
type Options map[string]json.RawMessage

// ReadOptions decodes the value stored under key into obj. A missing key
// leaves obj unchanged.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(ctx Context, opts Options, kv KVStore) error
}
