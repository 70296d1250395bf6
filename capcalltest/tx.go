package capcalltest

import (
	"fmt"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
)

// Tx represents a transaction as seen by handlers and decorators.
type Tx struct {
	Path     string
	Msg      []byte
	Sender   capcall.Address
	Contract capcall.Address
	Funds    []*coin.Coin
}

var _ capcall.Tx = (*Tx)(nil)

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return fmt.Sprintf("%s from %s", tx.Path, tx.Sender) }
func (*Tx) ProtoMessage()     {}

func (tx *Tx) GetPath() string              { return tx.Path }
func (tx *Tx) GetMsg() []byte               { return tx.Msg }
func (tx *Tx) GetSender() capcall.Address   { return tx.Sender }
func (tx *Tx) GetContract() capcall.Address { return tx.Contract }
func (tx *Tx) GetFunds() []*coin.Coin       { return tx.Funds }

// NewTx returns a transaction carrying given message, sent by sender to the
// contract instance with funds attached. Contract may be nil when the
// message creates a new instance.
func NewTx(t testing.TB, sender, contract capcall.Address, msg capcall.Msg, funds ...*coin.Coin) *Tx {
	t.Helper()

	raw, err := capcall.Marshal(msg)
	if err != nil {
		t.Fatalf("cannot marshal %T message: %s", msg, err)
	}
	return &Tx{
		Path:     msg.Path(),
		Msg:      raw,
		Sender:   sender,
		Contract: contract,
		Funds:    funds,
	}
}
