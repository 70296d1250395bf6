package utils

import (
	"time"

	"github.com/iov-one/capcall"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one log entry per transaction. Failed deliveries are
// errors, successful ones are info. Checks are logged at debug level
// either way, a rejected check does not touch the ledger.
type Logging struct{}

var _ capcall.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Checker) (*capcall.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)

	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Debug("check rejected", "err", err)
		return nil, err
	}
	logger.Debug("check passed")
	return res, nil
}

func (Logging) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Deliverer) (*capcall.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)

	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("deliver failed", "err", err)
		return nil, err
	}
	kv := []interface{}{"instructions", len(res.Instructions)}
	if len(res.Instance) != 0 {
		kv = append(kv, "instance", res.Instance.String())
	}
	if res.Transition.Changed() {
		kv = append(kv, "status", res.Transition.String())
	}
	logger.Info(res.Log, kv...)
	return res, nil
}

// txLogger returns the context logger with the fields shared by every
// entry of the transaction.
func txLogger(ctx capcall.Context, tx capcall.Tx, start time.Time) log.Logger {
	logger := capcall.GetLogger(ctx).With(
		"path", capcall.GetPath(tx),
		"took", time.Since(start)/time.Microsecond,
	)
	if tx == nil {
		return logger
	}
	if instance := tx.GetContract(); len(instance) != 0 {
		logger = logger.With("contract", instance.String())
	}
	return logger
}
