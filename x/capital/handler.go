package capital

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Terms of linked instances are requested through given query
// router.
func RegisterRoutes(r capcall.Registry, queries capcall.QueryRouter) {
	bucket := NewEscrowBucket()
	r.Handle(pathInstantiateMsg, InstantiateHandler{bucket: bucket, queries: queries})
	r.Handle(pathCommitMsg, newActionHandler(bucket, queries, func() capcall.Msg { return &CommitMsg{} }))
	r.Handle(pathRecallMsg, newActionHandler(bucket, queries, func() capcall.Msg { return &RecallMsg{} }))
	r.Handle(pathCallMsg, newActionHandler(bucket, queries, func() capcall.Msg { return &CallMsg{} }))
	r.Handle(pathCloseMsg, newActionHandler(bucket, queries, func() capcall.Msg { return &CloseMsg{} }))
	r.Handle(pathCancelMsg, newActionHandler(bucket, queries, func() capcall.Msg { return &CancelMsg{} }))
}

// InstantiateHandler creates new instances.
type InstantiateHandler struct {
	bucket  EscrowBucket
	queries capcall.QueryRouter
	engine  Engine
}

var _ capcall.Handler = InstantiateHandler{}

// Check runs the same validation as Deliver, without storing the result.
func (h InstantiateHandler) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &capcall.CheckResult{}, nil
}

// Deliver stores a new instance. The address of the instance is returned
// as the result data.
func (h InstantiateHandler) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Create(db, e.Address, e); err != nil {
		return nil, errors.Wrap(err, "cannot store instance")
	}
	return &capcall.DeliverResult{
		Data:       e.Address,
		Log:        e.Status.String(),
		Instance:   e.Address,
		Transition: capcall.Transition{To: e.Status.String()},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h InstantiateHandler) validate(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*Escrow, error) {
	var msg InstantiateMsg
	if err := capcall.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if len(tx.GetContract()) != 0 {
		return nil, errors.Wrap(errors.ErrInput, "instantiate must not address an instance")
	}
	instance, err := h.bucket.NextAddress(db)
	if err != nil {
		return nil, err
	}
	gw := NewStoreGateway(db, h.queries, instance)
	return h.engine.Initialize(ctx, gw, invocation(ctx, tx), instance, &msg)
}

// actionHandler processes every message addressed to an existing instance.
type actionHandler struct {
	bucket  EscrowBucket
	queries capcall.QueryRouter
	engine  Engine
	newMsg  func() capcall.Msg
}

var _ capcall.Handler = actionHandler{}

func newActionHandler(bucket EscrowBucket, queries capcall.QueryRouter, newMsg func() capcall.Msg) actionHandler {
	return actionHandler{bucket: bucket, queries: queries, newMsg: newMsg}
}

func (h actionHandler) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &capcall.CheckResult{}, nil
}

// Deliver saves the new state of the instance and returns the
// instructions that settle it.
func (h actionHandler) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	prev, next, instructions, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, next.Address, next); err != nil {
		return nil, errors.Wrap(err, "cannot save instance")
	}
	return &capcall.DeliverResult{
		Log:          next.Status.String(),
		Instance:     next.Address,
		Transition:   capcall.Transition{From: prev.String(), To: next.Status.String()},
		Instructions: instructions,
	}, nil
}

// validate returns the status of the instance before the message, its
// next state and the instructions that settle it.
func (h actionHandler) validate(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (Status, *Escrow, []*capcall.Instruction, error) {
	msg := h.newMsg()
	if err := capcall.LoadMsg(tx, msg); err != nil {
		return StatusInvalid, nil, nil, errors.Wrap(err, "load msg")
	}
	instance := tx.GetContract()
	if err := instance.Validate(); err != nil {
		return StatusInvalid, nil, nil, errors.Wrap(err, "instance")
	}
	state, err := h.bucket.Load(db, instance)
	if err != nil {
		return StatusInvalid, nil, nil, errors.Wrap(err, "cannot load instance")
	}
	prev := state.Status
	gw := NewStoreGateway(db, h.queries, instance)
	next, instructions, err := h.engine.Apply(gw, state, invocation(ctx, tx), msg)
	return prev, next, instructions, err
}

func invocation(ctx capcall.Context, tx capcall.Tx) Invocation {
	return Invocation{
		Caller:   tx.GetSender(),
		Deposits: tx.GetFunds(),
		Now:      blockNow(ctx),
	}
}
