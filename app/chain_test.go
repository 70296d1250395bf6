package app

import (
	"context"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/x/utils"
)

func TestChain(t *testing.T) {
	c1 := &capcalltest.Decorator{}
	c2 := &capcalltest.Decorator{}
	h := &capcalltest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		c2,
	).WithHandler(h)

	ctx := context.Background()
	tx := &capcalltest.Tx{Path: "capital/commit"}

	_, err := stack.Check(ctx, nil, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a failing decorator stops the chain
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanics(t *testing.T) {
	stack := ChainDecorators(
		utils.NewRecovery(),
	).WithHandler(capcalltest.PanicHandler{Value: "boom"})

	_, err := stack.Deliver(context.Background(), nil, &capcalltest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestChainExtends(t *testing.T) {
	c1 := &capcalltest.Decorator{}
	c2 := &capcalltest.Decorator{}
	base := ChainDecorators(c1)
	extended := base.Chain(c2)

	var h capcall.Handler = &capcalltest.Handler{}
	_, err := base.WithHandler(h).Check(context.Background(), nil, &capcalltest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 1, c1.CallCount())
	assert.Equal(t, 0, c2.CallCount())

	_, err = extended.WithHandler(h).Check(context.Background(), nil, &capcalltest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 1, c2.CallCount())
}

func TestChainSkipsNil(t *testing.T) {
	var typedNil *capcalltest.Decorator

	cases := map[string]struct {
		chain   []capcall.Decorator
		wantLen int
	}{
		"empty":           {chain: nil, wantLen: 0},
		"nil interface":   {chain: []capcall.Decorator{nil}, wantLen: 0},
		"typed nil":       {chain: []capcall.Decorator{typedNil}, wantLen: 0},
		"nil between two": {chain: []capcall.Decorator{utils.NewLogging(), typedNil, utils.NewRecovery()}, wantLen: 2},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d := ChainDecorators(tc.chain...)
			assert.Equal(t, tc.wantLen, len(d.chain))
		})
	}
}
