package ledger

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Dispatcher is a decorator that settles value movements of a transaction.
//
// On delivery it first runs the wrapped handler. On success it moves the
// funds attached to the transaction from the sender to the instance and
// then executes the returned instructions in order. Instruction attributes
// are appended to the result tags.
//
// Dispatcher does not isolate its writes. Place it below a Savepoint so
// that a failure discards the handler writes as well.
type Dispatcher struct {
	wallets WalletBucket
	mints   MintBucket
}

var _ capcall.Decorator = Dispatcher{}

// NewDispatcher returns a dispatcher using the default wallet bucket.
func NewDispatcher() Dispatcher {
	return Dispatcher{
		wallets: NewWalletBucket(),
		mints:   NewMintBucket(),
	}
}

// Check ensures the sender holds all attached funds before the handler is
// asked to validate the transaction.
func (d Dispatcher) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Checker) (*capcall.CheckResult, error) {
	funds, err := attachedFunds(tx)
	if err != nil {
		return nil, err
	}
	if len(funds) != 0 {
		have, err := d.wallets.Balance(db, tx.GetSender())
		if err != nil {
			return nil, err
		}
		for _, c := range funds {
			if !have.Contains(*c) {
				return nil, errors.Wrapf(errors.ErrInsufficientAmount, "sender holds %s, attached %s", have, c)
			}
		}
	}
	return next.Check(ctx, db, tx)
}

// Deliver runs the handler, then settles deposits and instructions.
func (d Dispatcher) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Deliverer) (*capcall.DeliverResult, error) {
	funds, err := attachedFunds(tx)
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if len(funds) != 0 {
		// A new instance has no address before the handler runs. It
		// returns the address of the created instance as result data.
		dest := tx.GetContract()
		if len(dest) == 0 {
			dest = capcall.Address(res.Data)
		}
		if err := dest.Validate(); err != nil {
			return nil, errors.Wrap(err, "deposit destination")
		}
		for _, c := range funds {
			if err := d.wallets.Move(db, tx.GetSender(), dest, *c); err != nil {
				return nil, errors.Wrap(err, "deposit")
			}
		}
	}

	tags, err := d.Execute(db, res.Instructions)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, tags...)

	capcall.GetLogger(ctx).Debug("instructions executed",
		"count", len(res.Instructions),
		"deposits", coin.Coins(funds).String())
	return res, nil
}

// Execute applies all instructions, in order, to the wallets. It returns
// the attributes of all instructions as tags.
func (d Dispatcher) Execute(db capcall.KVStore, instructions []*capcall.Instruction) ([]common.KVPair, error) {
	var tags []common.KVPair
	for i, ins := range instructions {
		if ins == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "instruction %d", i)
		}
		if err := ins.Validate(); err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		if err := d.apply(db, ins); err != nil {
			return nil, errors.Wrapf(err, "instruction %d: %s", i, ins.Kind)
		}
		for _, a := range ins.Attributes {
			tags = append(tags, common.KVPair{
				Key:   []byte(a.Key),
				Value: []byte(a.Value),
			})
		}
	}
	return tags, nil
}

func (d Dispatcher) apply(db capcall.KVStore, ins *capcall.Instruction) error {
	switch ins.Kind {
	case capcall.InstructionTransfer:
		return d.wallets.Move(db, ins.From, ins.To, *ins.Amount)
	case capcall.InstructionMint:
		if err := d.mints.Issue(db, *ins.Amount); err != nil {
			return err
		}
		return d.wallets.Add(db, ins.To, *ins.Amount)
	case capcall.InstructionWithdraw:
		if !ins.From.Equals(CustodyAddress(ins.Amount.Denom)) {
			return errors.Wrapf(errors.ErrUnauthorized, "withdraw %s from a non custody account", ins.Amount.Denom)
		}
		return d.wallets.Move(db, ins.From, ins.To, *ins.Amount)
	default:
		return errors.Wrapf(errors.ErrType, "unknown instruction %d", ins.Kind)
	}
}

func attachedFunds(tx capcall.Tx) ([]*coin.Coin, error) {
	funds := tx.GetFunds()
	if err := coin.Coins(funds).Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "attached funds: %s", err)
	}
	return funds, nil
}
