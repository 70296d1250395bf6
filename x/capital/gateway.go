package capital

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/x/ledger"
)

// Gateway is everything the Engine needs from outside of an instance.
// Instruction constructors only describe a movement, the host executes
// them after the Engine returns.
type Gateway interface {
	// QueryTerms returns the terms of another instance.
	QueryTerms(ctx capcall.Context, instance capcall.Address) (*Terms, error)
	// Transfer moves an asset held by the instance to given recipient.
	Transfer(to capcall.Address, asset coin.Coin, attrs ...*capcall.Attribute) *capcall.Instruction
	// MintSupply issues new supply of an asset.
	MintSupply(asset coin.Coin) *capcall.Instruction
	// WithdrawFromCustody moves an asset out of its custody account.
	WithdrawFromCustody(asset coin.Coin, recipient capcall.Address) *capcall.Instruction
}

// StoreGateway is the Gateway of a single instance. Terms of other
// instances are requested through the terms query.
type StoreGateway struct {
	ledger.Builder
	db      capcall.ReadOnlyKVStore
	queries capcall.QueryRouter
}

var _ Gateway = StoreGateway{}

// NewStoreGateway returns a gateway for given instance.
func NewStoreGateway(db capcall.ReadOnlyKVStore, queries capcall.QueryRouter, instance capcall.Address) StoreGateway {
	return StoreGateway{
		Builder: ledger.NewBuilder(instance),
		db:      db,
		queries: queries,
	}
}

// QueryTerms sends the terms query to given instance. Any failure is
// reported as ErrExternal.
func (g StoreGateway) QueryTerms(ctx capcall.Context, instance capcall.Address) (*Terms, error) {
	h := g.queries.Handler(termsQueryPath)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrExternal, "no %s query handler", termsQueryPath)
	}
	models, err := h.Query(g.db, capcall.KeyQueryMod, instance)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExternal, "terms of %s: %s", instance, err)
	}
	if len(models) != 1 {
		return nil, errors.Wrapf(errors.ErrExternal, "terms of %s: %d results", instance, len(models))
	}
	var t Terms
	if err := capcall.Unmarshal(models[0].Value, &t); err != nil {
		return nil, errors.Wrapf(errors.ErrExternal, "malformed terms of %s: %s", instance, err)
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrExternal, "malformed terms of %s: %s", instance, err)
	}
	capcall.GetLogger(ctx).Debug("linked terms", "instance", instance, "terms", t.String())
	return &t, nil
}
