package app

import (
	"time"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs decoded transactions through the handler stack, on top of
// the ledger state and queries of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder capcall.TxDecoder
	handler capcall.Handler
	metrics *Metrics
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application that decodes transactions with
// decoder and processes them with handler. With debug set, failed
// responses carry the full error and its stack.
func NewBaseApp(store *StoreApp, decoder capcall.TxDecoder, handler capcall.Handler, metrics *Metrics, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithMetrics(metrics),
		decoder:  decoder,
		handler:  handler,
		metrics:  metrics,
		debug:    debug,
	}
}

// DeliverTx applies a transaction to the block being built.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	start := time.Now()
	tx, err := b.decode(raw)
	var res abci.ResponseDeliverTx
	if err != nil {
		res = capcall.DeliverTxError(err, b.debug)
	} else {
		ctx := b.txContext("deliver_tx", tx)
		out, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
		res = capcall.DeliverOrError(out, err, b.debug)
	}
	b.metrics.ObserveDeliver(capcall.GetPath(tx), res.Code, time.Since(start))
	return res
}

// CheckTx validates a transaction against the mempool state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	var res abci.ResponseCheckTx
	if err != nil {
		res = capcall.CheckTxError(err, b.debug)
	} else {
		ctx := b.txContext("check_tx", tx)
		// Before the first block there is no block time to check due
		// dates against.
		if _, ok := capcall.BlockTime(ctx); !ok {
			ctx = capcall.WithBlockTime(ctx, time.Now())
		}
		out, err := b.handler.Check(ctx, b.CheckStore(), tx)
		res = capcall.CheckOrError(out, err, b.debug)
	}
	b.metrics.ObserveCheck(capcall.GetPath(tx), res.Code)
	return res
}

func (b BaseApp) txContext(call string, tx capcall.Tx) capcall.Context {
	return capcall.WithLogInfo(b.BlockContext(), "call", call, "path", capcall.GetPath(tx))
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(raw []byte) (tx capcall.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, err
	}
	return tx, nil
}
