/*
Package capcall holds the types shared by the capital call ledger: stores,
handlers and decorators, transactions and their results, addresses and
the context values every transaction sees.

Block values travel in a context.Context. Each has a setter and a getter:

  WithHeight(ctx, h)    GetHeight(ctx)
  WithHeader(ctx, h)    GetHeader(ctx)
  WithBlockTime(ctx, t) BlockTime(ctx)
  WithChainID(ctx, id)  GetChainID(ctx)
  WithLogger(ctx, l)    GetLogger(ctx)

Height, header and chain id can be set only once in a context chain, so
that no handler can pretend to run in another block.
*/
package capcall

import (
	"context"
	"fmt"
	"regexp"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is the standard context, extended by the functions below.
type Context = context.Context

type contextKey int

const (
	keyHeader contextKey = iota
	keyHeight
	keyChainID
	keyLogger
	keyBlockTime
)

// IsValidChainID reports whether the chain id is 6 to 20 letters, digits,
// dashes or underscores.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// setOnce stores value under key. It panics if key is already set.
func setOnce(ctx Context, key contextKey, name string, value interface{}) Context {
	if ctx.Value(key) != nil {
		panic(name + " already set")
	}
	return context.WithValue(ctx, key, value)
}

func WithHeader(ctx Context, header abci.Header) Context {
	return setOnce(ctx, keyHeader, "header", header)
}

// GetHeader returns the header of the block being executed.
func GetHeader(ctx Context) (abci.Header, bool) {
	h, ok := ctx.Value(keyHeader).(abci.Header)
	return h, ok
}

func WithHeight(ctx Context, height int64) Context {
	return setOnce(ctx, keyHeight, "height", height)
}

// GetHeight returns the height of the block being executed.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(keyHeight).(int64)
	return h, ok
}

// WithBlockTime sets the block time, in UTC. It is the only clock the
// capital call engine reads, due dates are checked against it.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, keyBlockTime, t.UTC())
}

// BlockTime returns the block time. A zero time counts as not set.
func BlockTime(ctx Context) (time.Time, bool) {
	t, ok := ctx.Value(keyBlockTime).(time.Time)
	if !ok || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// WithChainID sets the chain id. It panics on an invalid id.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return setOnce(ctx, keyChainID, "chain id", chainID)
}

// GetChainID returns the chain id. The app sets it before the first
// transaction, so a missing chain id panics.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(keyChainID).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// WithLogInfo adds key value pairs to every entry logged with the
// returned context.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger returns the logger of the context, or one that discards
// everything.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(keyLogger).(log.Logger); ok {
		return l
	}
	return log.NewNopLogger()
}
