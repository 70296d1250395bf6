package ledger

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
)

// Builder creates instructions on behalf of a single instance. Transfers
// always originate at the instance account.
type Builder struct {
	instance capcall.Address
}

// NewBuilder returns a builder for instructions of given instance.
func NewBuilder(instance capcall.Address) Builder {
	return Builder{instance: instance}
}

// Transfer moves an amount held by the instance to given recipient.
func (b Builder) Transfer(to capcall.Address, amount coin.Coin, attrs ...*capcall.Attribute) *capcall.Instruction {
	return &capcall.Instruction{
		Kind:       capcall.InstructionTransfer,
		From:       b.instance.Clone(),
		To:         to.Clone(),
		Amount:     amount.Clone(),
		Attributes: attrs,
	}
}

// MintSupply issues new supply of an asset into its custody account.
func (b Builder) MintSupply(amount coin.Coin) *capcall.Instruction {
	return &capcall.Instruction{
		Kind:   capcall.InstructionMint,
		To:     CustodyAddress(amount.Denom),
		Amount: amount.Clone(),
	}
}

// WithdrawFromCustody moves an amount out of the custody account of its
// denomination to given recipient.
func (b Builder) WithdrawFromCustody(amount coin.Coin, recipient capcall.Address) *capcall.Instruction {
	return &capcall.Instruction{
		Kind:   capcall.InstructionWithdraw,
		From:   CustodyAddress(amount.Denom),
		To:     recipient.Clone(),
		Amount: amount.Clone(),
	}
}

// Attr returns an instruction attribute.
func Attr(key, value string) *capcall.Attribute {
	return &capcall.Attribute{Key: key, Value: value}
}
