package capital

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// GenesisInstance is an instance created in the genesis file, as if
// Creator sent the instantiate message without any funds.
type GenesisInstance struct {
	Creator     capcall.Address `json:"creator"`
	Instantiate InstantiateMsg  `json:"instantiate"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ capcall.Initializer = (*Initializer)(nil)

// FromGenesis creates all instances listed under "capital", in order.
// Later instances may link to earlier ones.
func (*Initializer) FromGenesis(ctx capcall.Context, opts capcall.Options, db capcall.KVStore) error {
	var instances []GenesisInstance
	if err := opts.ReadOptions("capital", &instances); err != nil {
		return err
	}
	if len(instances) == 0 {
		return nil
	}

	queries := capcall.NewQueryRouter()
	RegisterQuery(queries)
	bucket := NewEscrowBucket()
	now := blockNow(ctx)

	for i, g := range instances {
		msg := g.Instantiate
		if msg.Metadata == nil {
			msg.Metadata = &capcall.Metadata{Schema: 1}
		}
		if err := msg.Validate(); err != nil {
			return errors.Wrapf(err, "instance %d", i)
		}
		instance, err := bucket.NextAddress(db)
		if err != nil {
			return err
		}
		inv := Invocation{Caller: g.Creator, Now: now}
		gw := NewStoreGateway(db, queries, instance)
		e, err := Engine{}.Initialize(ctx, gw, inv, instance, &msg)
		if err != nil {
			return errors.Wrapf(err, "instance %d", i)
		}
		if err := bucket.Create(db, instance, e); err != nil {
			return errors.Wrapf(err, "instance %d", i)
		}
		capcall.GetLogger(ctx).Info("genesis capital call", "instance", instance, "status", e.Status.String())
	}
	return nil
}
