package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLoggingDeliver(t *testing.T) {
	instance := capcall.Address{0xCA, 0xFE}

	cases := map[string]struct {
		tx       *capcalltest.Tx
		handler  *capcalltest.Handler
		wantErr  *errors.Error
		wantLogs []string
	}{
		"instance created": {
			tx: &capcalltest.Tx{Path: "capital/instantiate"},
			handler: &capcalltest.Handler{DeliverResult: capcall.DeliverResult{
				Log:        "PendingCapital",
				Instance:   instance,
				Transition: capcall.Transition{To: "PendingCapital"},
			}},
			wantLogs: []string{"capital/instantiate", "instance=CAFE", "New -> PendingCapital", "instructions=0"},
		},
		"capital called": {
			tx: &capcalltest.Tx{Path: "capital/call", Contract: instance},
			handler: &capcalltest.Handler{DeliverResult: capcall.DeliverResult{
				Instance:     instance,
				Transition:   capcall.Transition{From: "CapitalCommitted", To: "CapitalCalled"},
				Instructions: []*capcall.Instruction{{}, {}, {}},
			}},
			wantLogs: []string{"contract=CAFE", "CapitalCommitted -> CapitalCalled", "instructions=3"},
		},
		"failure": {
			tx:       &capcalltest.Tx{Path: "capital/commit", Contract: instance},
			handler:  &capcalltest.Handler{DeliverErr: errors.Wrap(errors.ErrUnauthorized, "not the provider")},
			wantErr:  errors.ErrUnauthorized,
			wantLogs: []string{"deliver failed", "not the provider", "contract=CAFE"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := capcall.WithLogger(context.Background(), log.NewTMLogger(&buf))

			_, err := NewLogging().Deliver(ctx, store.MemStore(), tc.tx, tc.handler)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}
			out := buf.String()
			for _, want := range tc.wantLogs {
				if !strings.Contains(out, want) {
					t.Errorf("%q missing from log: %s", want, out)
				}
			}
		})
	}
}

func TestLoggingCheckIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewFilter(log.NewTMLogger(&buf), log.AllowInfo())
	ctx := capcall.WithLogger(context.Background(), logger)
	tx := &capcalltest.Tx{Path: "capital/commit"}

	_, err := NewLogging().Check(ctx, store.MemStore(), tx, &capcalltest.Handler{})
	assert.Nil(t, err)
	_, err = NewLogging().Check(ctx, store.MemStore(), tx, &capcalltest.Handler{CheckErr: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)

	if buf.Len() != 0 {
		t.Fatalf("check must log at debug level only: %s", buf.String())
	}
}
