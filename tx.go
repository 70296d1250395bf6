package capcall

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
)

// Persistent is anything that can be stored and transmitted using its
// protobuf field tags.
//
// Implementations must not provide their own Marshal or Unmarshal methods:
// the encoding is derived from the struct definition only.
type Persistent interface {
	proto.Message
}

// Marshal serializes given entity.
func Marshal(p Persistent) ([]byte, error) {
	raw, err := proto.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// Unmarshal deserializes raw bytes into given entity, replacing any
// previous content.
func Unmarshal(raw []byte, p Persistent) error {
	if err := proto.Unmarshal(raw, p); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Msg is message for the ledger to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Return the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the checks fails.
	Validate() error
}

// Tx represent the data sent from the user to the ledger.
// It includes the actual message, along with information needed
// to route it to an instance and the funds attached to it.
//
// Signature verification is out of scope: the sender is trusted as the
// caller identity.
type Tx interface {
	Persistent

	// GetPath returns the path of the contained message.
	GetPath() string
	// GetMsg returns the serialized message.
	GetMsg() []byte
	// GetSender returns the identity invoking the action.
	GetSender() Address
	// GetContract returns the instance the message is addressed to. Empty
	// when a new instance is being created.
	GetContract() Address
	// GetFunds returns the deposits attached to this invocation.
	GetFunds() []*coin.Coin
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	if tx == nil || tx.GetPath() == "" {
		return "(missing)"
	}
	return tx.GetPath()
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, dst Msg) error {
	if tx.GetPath() != dst.Path() {
		return errors.Wrapf(errors.ErrType, "want %q message, got %q", dst.Path(), tx.GetPath())
	}
	if err := Unmarshal(tx.GetMsg(), dst); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	return nil
}
