package capcalltest

import (
	"context"
	"time"

	"github.com/iov-one/capcall"
)

// Ctx returns a context carrying given block height and block time, as
// prepared by the application for every transaction of a block.
func Ctx(height int64, now time.Time) capcall.Context {
	ctx := capcall.WithHeight(context.Background(), height)
	ctx = capcall.WithChainID(ctx, "capcall-test")
	return capcall.WithBlockTime(ctx, now)
}
