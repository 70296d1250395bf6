package capital

import (
	"time"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
)

// Invocation describes a single call of an instance: who calls it, what
// is attached to it and the block time it is executed at.
type Invocation struct {
	Caller   capcall.Address
	Deposits []*coin.Coin
	Now      time.Time
}

// Engine decides all state transitions of capital call instances.
//
// Engine does not read or write any storage. Given the current state and
// an invocation it returns the next state and the instructions that must
// be executed together with saving that state. The given state is never
// modified.
type Engine struct{}

// Initialize returns the state of a new instance at given address.
func (Engine) Initialize(ctx capcall.Context, gw Gateway, inv Invocation, instance capcall.Address, msg *InstantiateMsg) (*Escrow, error) {
	e := &Escrow{
		Metadata:         &capcall.Metadata{Schema: 1},
		Address:          instance.Clone(),
		Status:           StatusPendingCapital,
		CapitalProvider:  msg.CapitalProvider.Clone(),
		CapitalUser:      msg.CapitalUser.Clone(),
		Admin:            msg.Admin.Clone(),
		Capital:          msg.Capital.Clone(),
		Settlement:       msg.Settlement.Clone(),
		SettlementMode:   msg.SettlementMode,
		Distribution:     msg.Distribution.Clone(),
		DistributionMemo: msg.DistributionMemo,
		LinkedInstance:   msg.LinkedInstance.Clone(),
	}

	if len(msg.LinkedInstance) != 0 {
		terms, err := gw.QueryTerms(ctx, msg.LinkedInstance)
		if err != nil {
			return nil, err
		}
		if err := adoptTerms(e, terms); err != nil {
			return nil, err
		}
	}
	if len(e.CapitalUser) == 0 {
		e.CapitalUser = inv.Caller.Clone()
	}
	if e.SettlementMode == SettlementEscrowed && !isOneOf(inv.Caller, e.CapitalUser) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the capital user can escrow the settlement asset")
	}

	if msg.DueDate != "" {
		due, err := capcall.ParseUnixTime(msg.DueDate)
		if err != nil {
			return nil, errors.Wrap(err, "due date")
		}
		if !due.Time().After(inv.Now) {
			return nil, errors.Wrapf(errors.ErrInput, "due date %s must be in the future", due)
		}
		e.DueDate = due
	}

	if len(e.LinkedInstance) != 0 {
		e.RefundTarget = e.LinkedInstance.Clone()
	} else {
		e.RefundTarget = e.CapitalProvider.Clone()
	}

	if e.SettlementMode == SettlementEscrowed {
		if err := requireDeposit(inv.Deposits, *e.Settlement); err != nil {
			return nil, errors.Wrap(err, "no settlement asset was escrowed")
		}
	} else if err := requireNoDeposit(inv.Deposits); err != nil {
		return nil, err
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// adoptTerms fills the parties and the capital denomination that were not
// given explicitly with the terms of the linked instance. The capital
// amount must be within the bounds of the linked terms.
func adoptTerms(e *Escrow, terms *Terms) error {
	if len(e.CapitalProvider) == 0 {
		if len(terms.CapitalProvider) == 0 {
			return errors.Wrap(errors.ErrExternal, "linked terms do not declare a capital provider")
		}
		e.CapitalProvider = terms.CapitalProvider.Clone()
	}
	if len(e.CapitalUser) == 0 {
		e.CapitalUser = terms.CapitalUser.Clone()
	}
	if e.Capital.Denom == "" {
		e.Capital.Denom = terms.CapitalDenom
	}
	if e.Capital.Denom != terms.CapitalDenom {
		return errors.Wrapf(errors.ErrInput, "capital denom %q, linked instance requires %q", e.Capital.Denom, terms.CapitalDenom)
	}
	if e.Capital.Amount < terms.MinCapital || e.Capital.Amount > terms.MaxCapital {
		return errors.Wrapf(errors.ErrInput, "capital %s out of linked bounds [%d, %d]", e.Capital, terms.MinCapital, terms.MaxCapital)
	}
	return nil
}

// Apply executes the action of given message against the current state.
func (en Engine) Apply(gw Gateway, state *Escrow, inv Invocation, msg capcall.Msg) (*Escrow, []*capcall.Instruction, error) {
	switch msg.(type) {
	case *CommitMsg:
		return en.Commit(state, inv)
	case *RecallMsg:
		return en.Recall(gw, state, inv)
	case *CallMsg, *CloseMsg:
		return en.Call(gw, state, inv)
	case *CancelMsg:
		return en.Cancel(gw, state, inv)
	default:
		return nil, nil, errors.Wrapf(errors.ErrType, "cannot apply %T", msg)
	}
}

// Commit accepts the capital deposit of the provider.
func (Engine) Commit(state *Escrow, inv Invocation) (*Escrow, []*capcall.Instruction, error) {
	if !isOneOf(inv.Caller, state.CapitalProvider) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the capital provider can commit capital")
	}
	if state.Status != StatusPendingCapital {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot commit capital in %s status", state.Status)
	}
	if err := checkDueDate(state, inv.Now); err != nil {
		return nil, nil, err
	}
	if err := requireDeposit(inv.Deposits, *state.Capital); err != nil {
		return nil, nil, errors.Wrap(err, "capital")
	}

	next := state.Copy()
	next.Status = StatusCapitalCommitted
	return next, nil, nil
}

// Recall returns the committed capital to the provider.
func (Engine) Recall(gw Gateway, state *Escrow, inv Invocation) (*Escrow, []*capcall.Instruction, error) {
	if !isOneOf(inv.Caller, state.CapitalProvider, state.Admin) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the capital provider or admin can recall capital")
	}
	if state.Status != StatusCapitalCommitted {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot recall capital in %s status", state.Status)
	}
	if err := checkDueDate(state, inv.Now); err != nil {
		return nil, nil, err
	}
	if err := requireNoDeposit(inv.Deposits); err != nil {
		return nil, nil, err
	}

	next := state.Copy()
	next.Status = StatusPendingCapital
	return next, []*capcall.Instruction{
		gw.Transfer(state.CapitalProvider, *state.Capital),
	}, nil
}

// Call settles the committed capital. What the provider receives in
// exchange depends on the settlement mode of the instance.
func (Engine) Call(gw Gateway, state *Escrow, inv Invocation) (*Escrow, []*capcall.Instruction, error) {
	if !isOneOf(inv.Caller, state.CapitalUser, state.Admin) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the capital user or admin can call capital")
	}
	if state.Status != StatusCapitalCommitted {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot call capital in %s status", state.Status)
	}
	if state.SettlementMode == SettlementDeposit {
		if err := requireDeposit(inv.Deposits, *state.Settlement); err != nil {
			return nil, nil, errors.Wrap(err, "settlement")
		}
	} else if err := requireNoDeposit(inv.Deposits); err != nil {
		return nil, nil, err
	}

	// Minted supply always goes to the provider. Pre-existing settlement
	// assets go to the counterparty, which is the linked instance if any.
	counterparty := state.RefundTarget
	var instructions []*capcall.Instruction
	switch state.SettlementMode {
	case SettlementMint:
		instructions = append(instructions,
			gw.MintSupply(*state.Settlement),
			gw.WithdrawFromCustody(*state.Settlement, state.CapitalProvider),
		)
	case SettlementCustody:
		instructions = append(instructions,
			gw.WithdrawFromCustody(*state.Settlement, counterparty),
		)
	case SettlementDeposit, SettlementEscrowed:
		instructions = append(instructions,
			gw.Transfer(counterparty, *state.Settlement),
		)
	}

	dest := state.Distribution
	if len(dest) == 0 {
		dest = state.CapitalUser
	}
	var attrs []*capcall.Attribute
	if state.DistributionMemo != "" {
		attrs = append(attrs, &capcall.Attribute{Key: "memo", Value: state.DistributionMemo})
	}
	instructions = append(instructions, gw.Transfer(dest, *state.Capital, attrs...))

	next := state.Copy()
	next.Status = StatusCapitalCalled
	return next, instructions, nil
}

// Cancel terminates the instance. Committed capital is refunded.
func (Engine) Cancel(gw Gateway, state *Escrow, inv Invocation) (*Escrow, []*capcall.Instruction, error) {
	if !isOneOf(inv.Caller, state.CapitalUser, state.Admin) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the capital user or admin can cancel")
	}
	if state.Status != StatusPendingCapital && state.Status != StatusCapitalCommitted {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot cancel in %s status", state.Status)
	}
	if err := requireNoDeposit(inv.Deposits); err != nil {
		return nil, nil, err
	}

	var instructions []*capcall.Instruction
	if state.Status == StatusCapitalCommitted {
		instructions = append(instructions, gw.Transfer(state.RefundTarget, *state.Capital))
	}
	if state.SettlementMode == SettlementEscrowed {
		instructions = append(instructions, gw.Transfer(state.CapitalUser, *state.Settlement))
	}

	next := state.Copy()
	next.Status = StatusCancelled
	return next, instructions, nil
}

// checkDueDate refuses actions after the due date. An action exactly at
// the due date is allowed.
func checkDueDate(state *Escrow, now time.Time) error {
	if state.DueDate.IsZero() {
		return nil
	}
	if now.After(state.DueDate.Time()) {
		return errors.Wrapf(errors.ErrInput, "past due date %s", state.DueDate)
	}
	return nil
}

// requireDeposit ensures exactly one deposit was attached and that it is
// exactly the expected asset.
func requireDeposit(deposits []*coin.Coin, want coin.Coin) error {
	switch len(deposits) {
	case 0:
		return errors.Wrapf(errors.ErrInput, "no deposit, want %s", want)
	case 1:
	default:
		return errors.Wrapf(errors.ErrInput, "%d deposits, want exactly %s", len(deposits), want)
	}
	got := deposits[0]
	if got == nil {
		return errors.Wrap(errors.ErrInput, "empty deposit")
	}
	if !got.SameDenom(want) {
		return errors.Wrapf(errors.ErrInput, "deposit %s does not match required denom %s", got, want.Denom)
	}
	if !got.Equals(want) {
		return errors.Wrapf(errors.ErrInput, "incorrect amount %s, want %s", got, want)
	}
	return nil
}

func requireNoDeposit(deposits []*coin.Coin) error {
	if len(deposits) != 0 {
		return errors.Wrapf(errors.ErrInput, "unexpected deposit %s", coin.Coins(deposits))
	}
	return nil
}

// isOneOf returns true if the caller is any of the given, non empty,
// addresses.
func isOneOf(caller capcall.Address, allowed ...capcall.Address) bool {
	if len(caller) == 0 {
		return false
	}
	for _, a := range allowed {
		if len(a) != 0 && caller.Equals(a) {
			return true
		}
	}
	return false
}
