package capcall_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/tendermint/tendermint/libs/common"
)

func TestFailedTxResponse(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantLog  string
		wantCode uint32
	}{
		"caller is not the provider": {
			err:      errors.Wrap(errors.ErrUnauthorized, "only the capital provider"),
			wantLog:  "only the capital provider: unauthorized",
			wantCode: errors.ErrUnauthorized.ABCICode(),
		},
		"linked instance failure keeps its code": {
			err:      errors.Wrap(errors.ErrExternal, "query terms"),
			wantLog:  "query terms",
			wantCode: errors.ErrExternal.ABCICode(),
		},
		"unregistered error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"unregistered error in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantLog:  "disk on fire",
			wantCode: 1,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := capcall.DeliverOrError(nil, tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, dres.Code)
			if !strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.wantLog) {
				t.Fatalf("unexpected deliver log: %q", dres.Log)
			}

			cres := capcall.CheckOrError(nil, tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, cres.Code)
			if !strings.HasPrefix(cres.Log, "cannot check tx: "+tc.wantLog) {
				t.Fatalf("unexpected check log: %q", cres.Log)
			}
		})
	}
}

func TestDeliverResultToABCI(t *testing.T) {
	instance := capcall.Address("escrow-0001")
	tags := []common.KVPair{{Key: []byte("memo"), Value: []byte("fund I")}}
	res := capcall.DeliverOrError(&capcall.DeliverResult{
		Data:       instance,
		Log:        "CapitalCalled",
		Instance:   instance,
		Transition: capcall.Transition{From: "CapitalCommitted", To: "CapitalCalled"},
		Instructions: []*capcall.Instruction{
			{Kind: capcall.InstructionMint},
		},
		Tags: tags,
	}, nil, false)

	assert.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	assert.Equal(t, []byte(instance), res.Data)
	assert.Equal(t, "CapitalCalled", res.Log)
	assert.Equal(t, tags, res.Tags)

	chk := capcall.CheckOrError(&capcall.CheckResult{Log: "ok"}, nil, false)
	assert.Equal(t, uint32(errors.SuccessABCICode), chk.Code)
	assert.Equal(t, "ok", chk.Log)
}

func TestTransition(t *testing.T) {
	cases := map[string]struct {
		tr          capcall.Transition
		wantChanged bool
		wantString  string
	}{
		"created": {
			tr:          capcall.Transition{To: "PendingCapital"},
			wantChanged: true,
			wantString:  "New -> PendingCapital",
		},
		"committed": {
			tr:          capcall.Transition{From: "PendingCapital", To: "CapitalCommitted"},
			wantChanged: true,
			wantString:  "PendingCapital -> CapitalCommitted",
		},
		"unchanged": {
			tr:         capcall.Transition{From: "CapitalCalled", To: "CapitalCalled"},
			wantString: "CapitalCalled",
		},
		"not tracked": {
			tr: capcall.Transition{},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantChanged, tc.tr.Changed())
			assert.Equal(t, tc.wantString, tc.tr.String())
		})
	}
}
