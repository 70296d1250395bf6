package ledger

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
)

// GenesisWallet is the initial balance of an address.
type GenesisWallet struct {
	Address capcall.Address `json:"address"`
	Coins   []coin.Coin     `json:"coins"`
}

// GenesisMintable declares a denomination that capital call instances
// may mint.
type GenesisMintable struct {
	Denom     string `json:"denom"`
	MaxSupply uint64 `json:"max_supply"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ capcall.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial wallet balances and mintable
// denominations from genesis and save them to the database
func (*Initializer) FromGenesis(ctx capcall.Context, opts capcall.Options, db capcall.KVStore) error {
	var wallets []GenesisWallet
	if err := opts.ReadOptions("wallets", &wallets); err != nil {
		return err
	}
	var mintable []GenesisMintable
	if err := opts.ReadOptions("mintable", &mintable); err != nil {
		return err
	}

	mints := NewMintBucket()
	for i, m := range mintable {
		if err := mints.Allow(db, m.Denom, m.MaxSupply); err != nil {
			return errors.Wrapf(err, "mintable %d", i)
		}
	}

	bucket := NewWalletBucket()
	for i, w := range wallets {
		if err := w.Address.Validate(); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		for _, c := range w.Coins {
			if err := bucket.Add(db, w.Address, c); err != nil {
				return errors.Wrapf(err, "wallet %d", i)
			}
		}
	}
	return nil
}

// RegisterQuery will register wallets as "/wallets" and mint authorities
// as "/mintable"
func RegisterQuery(qr capcall.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewMintBucket().Register("mintable", qr)
}
