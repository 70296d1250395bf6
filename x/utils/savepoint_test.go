package utils

import (
	"context"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
)

func TestSavepoint(t *testing.T) {
	escrow, committed := []byte("capital:0001"), []byte("committed")
	wallet, balance := []byte("wallet:alice"), []byte("1000cfigure")

	rejected := capcalltest.WriteHandler{Key: wallet, Value: balance, Err: errors.ErrInput}
	accepted := capcalltest.WriteHandler{Key: wallet, Value: balance}

	cases := map[string]struct {
		save       Savepoint
		handler    capcall.Handler
		check      bool
		wantErr    *errors.Error
		wantWallet []byte
	}{
		"disabled keeps the writes of a rejected check": {
			save:       NewSavepoint(),
			handler:    rejected,
			check:      true,
			wantErr:    errors.ErrInput,
			wantWallet: balance,
		},
		"rejected check is rolled back": {
			save:    NewSavepoint().OnCheck(),
			handler: rejected,
			check:   true,
			wantErr: errors.ErrInput,
		},
		"rejected deliver is rolled back": {
			save:    NewSavepoint().OnDeliver(),
			handler: rejected,
			wantErr: errors.ErrInput,
		},
		"both phases enabled in any order": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: rejected,
			wantErr: errors.ErrInput,
		},
		"check savepoint does not cover deliver": {
			save:       NewSavepoint().OnCheck(),
			handler:    rejected,
			wantErr:    errors.ErrInput,
			wantWallet: balance,
		},
		"accepted deliver is written": {
			save:       NewSavepoint().OnCheck().OnDeliver(),
			handler:    accepted,
			wantWallet: balance,
		},
		"accepted check is written": {
			save:       NewSavepoint().OnCheck(),
			handler:    accepted,
			check:      true,
			wantWallet: balance,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()
			assert.Nil(t, db.Set(escrow, committed))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, db, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, db, nil, tc.handler)
			}
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			store.AssertValue(t, db, escrow, committed)
			store.AssertValue(t, db, wallet, tc.wantWallet)
		})
	}
}
