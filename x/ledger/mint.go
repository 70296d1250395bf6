package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/orm"
)

// Mintable allows mint instructions to issue new supply of a single
// denomination. Only denominations declared in genesis are mintable.
// A zero MaxSupply does not limit the issued amount.
type Mintable struct {
	Metadata  *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Denom     string            `protobuf:"bytes,2,opt,name=denom,proto3" json:"denom"`
	MaxSupply uint64            `protobuf:"varint,3,opt,name=max_supply,json=maxSupply,proto3" json:"max_supply,omitempty"`
	Issued    uint64            `protobuf:"varint,4,opt,name=issued,proto3" json:"issued,omitempty"`
}

var _ orm.Model = (*Mintable)(nil)

func (m *Mintable) Reset()         { *m = Mintable{} }
func (m *Mintable) String() string { return proto.CompactTextString(m) }
func (*Mintable) ProtoMessage()    {}

func (m *Mintable) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if !coin.IsDenom(m.Denom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid denom %q", m.Denom)
	}
	if m.MaxSupply != 0 && m.Issued > m.MaxSupply {
		return errors.Wrapf(errors.ErrAmount, "issued %d over max supply %d", m.Issued, m.MaxSupply)
	}
	return nil
}

// MintBucket stores the mint authority of each mintable denomination,
// keyed by the denomination.
type MintBucket struct {
	orm.Bucket
}

// NewMintBucket returns a bucket for mint authorities.
func NewMintBucket() MintBucket {
	return MintBucket{
		Bucket: orm.NewBucket("mintable"),
	}
}

// Allow declares given denomination mintable. Declaring it twice is
// ErrDuplicate.
func (b MintBucket) Allow(db capcall.KVStore, denom string, maxSupply uint64) error {
	m := &Mintable{
		Metadata:  &capcall.Metadata{Schema: 1},
		Denom:     denom,
		MaxSupply: maxSupply,
	}
	return b.Create(db, []byte(denom), m)
}

// Issue records that given amount was minted. It fails with
// ErrUnauthorized for a denomination that is not mintable and with
// ErrAmount when the issued total would pass the max supply.
func (b MintBucket) Issue(db capcall.KVStore, amount coin.Coin) error {
	if amount.Denom == "" {
		return errors.Wrap(errors.ErrCurrency, "empty denom")
	}
	var m Mintable
	switch err := b.One(db, []byte(amount.Denom), &m); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not mintable", amount.Denom)
	default:
		return err
	}

	issued, err := coin.NewCoin(m.Issued, m.Denom).Add(amount)
	if err != nil {
		return err
	}
	if m.MaxSupply != 0 && issued.Amount > m.MaxSupply {
		return errors.Wrapf(errors.ErrAmount, "minting %s passes max supply %d", amount, m.MaxSupply)
	}
	m.Issued = issued.Amount
	return b.Save(db, []byte(m.Denom), &m)
}
