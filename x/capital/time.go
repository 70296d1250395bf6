package capital

import (
	"time"

	"github.com/iov-one/capcall"
)

// blockNow returns the block time of the context. The application always
// sets it, so a missing value is a programming error.
func blockNow(ctx capcall.Context) time.Time {
	now, ok := capcall.BlockTime(ctx)
	if !ok {
		panic("block time is not present in the context")
	}
	return now
}
