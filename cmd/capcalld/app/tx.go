package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
)

// Tx is the transaction envelope accepted by capcalld. Msg holds the
// serialized message routed by Path.
type Tx struct {
	Sender   capcall.Address `protobuf:"bytes,1,opt,name=sender,proto3,casttype=github.com/iov-one/capcall.Address" json:"sender"`
	Contract capcall.Address `protobuf:"bytes,2,opt,name=contract,proto3,casttype=github.com/iov-one/capcall.Address" json:"contract,omitempty"`
	Funds    []*coin.Coin    `protobuf:"bytes,3,rep,name=funds,proto3" json:"funds,omitempty"`
	Path     string          `protobuf:"bytes,4,opt,name=path,proto3" json:"path"`
	Msg      []byte          `protobuf:"bytes,5,opt,name=msg,proto3" json:"msg"`
}

var _ capcall.Tx = (*Tx)(nil)

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

func (m *Tx) GetPath() string              { return m.Path }
func (m *Tx) GetMsg() []byte               { return m.Msg }
func (m *Tx) GetSender() capcall.Address   { return m.Sender }
func (m *Tx) GetContract() capcall.Address { return m.Contract }
func (m *Tx) GetFunds() []*coin.Coin       { return m.Funds }

// NewTx wraps given message into a transaction envelope.
func NewTx(sender, contract capcall.Address, msg capcall.Msg, funds ...*coin.Coin) (*Tx, error) {
	raw, err := capcall.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{
		Sender:   sender,
		Contract: contract,
		Funds:    funds,
		Path:     msg.Path(),
		Msg:      raw,
	}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (capcall.Tx, error) {
	if len(bz) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction")
	}
	tx := new(Tx)
	if err := capcall.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := tx.Sender.Validate(); err != nil {
		return nil, errors.Wrap(err, "sender")
	}
	return tx, nil
}
