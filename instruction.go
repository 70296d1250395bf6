package capcall

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
)

// InstructionKind declares what kind of ledger movement an Instruction
// requests.
type InstructionKind int32

const (
	// InstructionInvalid is the zero value and never valid.
	InstructionInvalid InstructionKind = 0
	// InstructionTransfer moves an amount from one account to another.
	InstructionTransfer InstructionKind = 1
	// InstructionMint issues new supply of an asset into an account.
	InstructionMint InstructionKind = 2
	// InstructionWithdraw moves an amount out of a custody account.
	InstructionWithdraw InstructionKind = 3
)

var instructionKindNames = map[InstructionKind]string{
	InstructionInvalid:  "INVALID",
	InstructionTransfer: "TRANSFER",
	InstructionMint:     "MINT",
	InstructionWithdraw: "WITHDRAW",
}

func (k InstructionKind) String() string {
	if n, ok := instructionKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("InstructionKind(%d)", int32(k))
}

// Instruction is a side effect requested by a handler. Handlers never
// move value themselves, they return a list of instructions that the host
// executes, in order, within the same atomic transaction.
type Instruction struct {
	Kind       InstructionKind `protobuf:"varint,1,opt,name=kind,proto3" json:"kind"`
	From       Address         `protobuf:"bytes,2,opt,name=from,proto3,casttype=Address" json:"from,omitempty"`
	To         Address         `protobuf:"bytes,3,opt,name=to,proto3,casttype=Address" json:"to"`
	Amount     *coin.Coin      `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount"`
	Attributes []*Attribute    `protobuf:"bytes,5,rep,name=attributes,proto3" json:"attributes,omitempty"`
}

var _ Persistent = (*Instruction)(nil)

func (m *Instruction) Reset()         { *m = Instruction{} }
func (m *Instruction) String() string { return proto.CompactTextString(m) }
func (*Instruction) ProtoMessage()    {}

// Validate ensures the instruction is complete. A mint has no source
// account, every other kind must name one.
func (m *Instruction) Validate() error {
	switch m.Kind {
	case InstructionTransfer, InstructionWithdraw:
		if err := m.From.Validate(); err != nil {
			return errors.Wrap(err, "from")
		}
	case InstructionMint:
		if len(m.From) != 0 {
			return errors.Wrap(errors.ErrInput, "mint must not have a source")
		}
	default:
		return errors.Wrapf(errors.ErrType, "instruction kind %d", m.Kind)
	}
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	if m.Amount == nil {
		return errors.Wrap(errors.ErrEmpty, "amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return err
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	for _, a := range m.Attributes {
		if a == nil || a.Key == "" {
			return errors.Wrap(errors.ErrEmpty, "attribute key")
		}
	}
	return nil
}

// Attribute is a key value pair attached to an Instruction, for example a
// transfer memo. Attributes are indexed together with the transaction.
type Attribute struct {
	Key   string `protobuf:"bytes,1,opt,name=key,proto3" json:"key"`
	Value string `protobuf:"bytes,2,opt,name=value,proto3" json:"value"`
}

func (m *Attribute) Reset()         { *m = Attribute{} }
func (m *Attribute) String() string { return proto.CompactTextString(m) }
func (*Attribute) ProtoMessage()    {}
