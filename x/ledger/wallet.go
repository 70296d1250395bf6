package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/orm"
)

// Wallet holds the coins owned by a single address.
type Wallet struct {
	Metadata *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Coins    []*coin.Coin      `protobuf:"bytes,2,rep,name=coins,proto3" json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// Validate ensures every held coin is valid and positive.
func (m *Wallet) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return coin.Coins(m.Coins).Validate()
}

// WalletBucket stores a wallet per address.
type WalletBucket struct {
	orm.Bucket
}

// NewWalletBucket returns a bucket for wallets.
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		Bucket: orm.NewBucket("wallet"),
	}
}

// Balance returns all coins held by given address. An address that never
// received anything holds nothing.
func (b WalletBucket) Balance(db capcall.ReadOnlyKVStore, addr capcall.Address) (coin.Coins, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return coin.Coins(w.Coins), nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Add credits given address with given amount.
func (b WalletBucket) Add(db capcall.KVStore, addr capcall.Address, amount coin.Coin) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	have, err := b.Balance(db, addr)
	if err != nil {
		return err
	}
	sum, err := have.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "credit %s", addr)
	}
	return b.Save(db, addr, &Wallet{
		Metadata: &capcall.Metadata{Schema: 1},
		Coins:    sum,
	})
}

// Subtract debits given address with given amount. It fails with
// ErrInsufficientAmount if the address does not hold enough.
func (b WalletBucket) Subtract(db capcall.KVStore, addr capcall.Address, amount coin.Coin) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	have, err := b.Balance(db, addr)
	if err != nil {
		return err
	}
	left, err := have.Subtract(amount)
	if err != nil {
		return errors.Wrapf(err, "debit %s", addr)
	}
	return b.Save(db, addr, &Wallet{
		Metadata: &capcall.Metadata{Schema: 1},
		Coins:    left,
	})
}

// Move transfers given amount from one address to another.
func (b WalletBucket) Move(db capcall.KVStore, from, to capcall.Address, amount coin.Coin) error {
	if err := b.Subtract(db, from, amount); err != nil {
		return err
	}
	return b.Add(db, to, amount)
}
