package capcalltest

import "github.com/iov-one/capcall"

// Handler is a mock implementation of the capcall.Handler interface.
//
// Each method call is counted and the configured result or error is
// returned.
type Handler struct {
	checkCall   int
	CheckResult capcall.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult capcall.DeliverResult
	DeliverErr    error
}

var _ capcall.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the key, value pair to the store and then returns
// the error (may be nil).
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ capcall.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &capcall.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &capcall.DeliverResult{}, nil
}

// PanicHandler always panics with the given value.
type PanicHandler struct {
	Value interface{}
}

var _ capcall.Handler = PanicHandler{}

func (p PanicHandler) Check(capcall.Context, capcall.KVStore, capcall.Tx) (*capcall.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(capcall.Context, capcall.KVStore, capcall.Tx) (*capcall.DeliverResult, error) {
	panic(p.Value)
}
