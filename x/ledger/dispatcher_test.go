package ledger

import (
	"context"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
	"github.com/iov-one/capcall/x/utils"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDispatcherDeliver(t *testing.T) {
	sender := capcalltest.NewAddress()
	instance := capcalltest.NewAddress()
	provider := capcalltest.NewAddress()
	target := capcalltest.NewAddress()
	b := NewBuilder(instance)

	cases := map[string]struct {
		funds        []*coin.Coin
		contract     capcall.Address
		data         []byte
		instructions []*capcall.Instruction
		handlerErr   error
		wantErr      *errors.Error
		wantBalances map[string]coin.Coins
		wantTags     []common.KVPair
	}{
		"deposit is moved to the instance": {
			funds:    []*coin.Coin{coin.NewCoinp(100, "usdf")},
			contract: instance,
			wantBalances: map[string]coin.Coins{
				sender.String():   {coin.NewCoinp(10, "cfigure"), coin.NewCoinp(900, "usdf")},
				instance.String(): {coin.NewCoinp(200, "usdf")},
			},
		},
		"deposit of a new instance goes to the returned address": {
			funds: []*coin.Coin{coin.NewCoinp(3, "cfigure")},
			data:  instance,
			wantBalances: map[string]coin.Coins{
				sender.String():   {coin.NewCoinp(7, "cfigure"), coin.NewCoinp(1000, "usdf")},
				instance.String(): {coin.NewCoinp(3, "cfigure"), coin.NewCoinp(100, "usdf")},
			},
		},
		"deposit then instructions in order": {
			funds:    []*coin.Coin{coin.NewCoinp(5, "cfigure")},
			contract: instance,
			instructions: []*capcall.Instruction{
				b.Transfer(provider, coin.NewCoin(5, "cfigure")),
				b.MintSupply(coin.NewCoin(7, "shares")),
				b.WithdrawFromCustody(coin.NewCoin(7, "shares"), provider),
				b.Transfer(target, coin.NewCoin(100, "usdf"), Attr("memo", "fund")),
			},
			wantBalances: map[string]coin.Coins{
				sender.String():   {coin.NewCoinp(5, "cfigure"), coin.NewCoinp(1000, "usdf")},
				instance.String(): nil,
				provider.String(): {coin.NewCoinp(5, "cfigure"), coin.NewCoinp(7, "shares")},
				target.String():   {coin.NewCoinp(100, "usdf")},
			},
			wantTags: []common.KVPair{{Key: []byte("memo"), Value: []byte("fund")}},
		},
		"mint of a denom that is not mintable is refused": {
			contract: instance,
			instructions: []*capcall.Instruction{
				b.MintSupply(coin.NewCoin(1, "usdf")),
			},
			wantErr: errors.ErrUnauthorized,
		},
		"mint within max supply": {
			contract: instance,
			instructions: []*capcall.Instruction{
				b.MintSupply(coin.NewCoin(5, "capped")),
				b.WithdrawFromCustody(coin.NewCoin(5, "capped"), provider),
			},
			wantBalances: map[string]coin.Coins{
				provider.String(): {coin.NewCoinp(5, "capped")},
			},
		},
		"mint over max supply is refused": {
			contract: instance,
			instructions: []*capcall.Instruction{
				b.MintSupply(coin.NewCoin(6, "capped")),
			},
			wantErr: errors.ErrAmount,
		},
		"insufficient deposit fails": {
			funds:    []*coin.Coin{coin.NewCoinp(5000, "usdf")},
			contract: instance,
			wantErr:  errors.ErrInsufficientAmount,
		},
		"invalid funds are rejected": {
			funds:    []*coin.Coin{coin.NewCoinp(0, "usdf")},
			contract: instance,
			wantErr:  errors.ErrInput,
		},
		"transfer of more than held fails": {
			contract: instance,
			instructions: []*capcall.Instruction{
				b.Transfer(provider, coin.NewCoin(101, "usdf")),
			},
			wantErr: errors.ErrInsufficientAmount,
		},
		"withdraw from a non custody account is refused": {
			contract: instance,
			instructions: []*capcall.Instruction{
				{Kind: capcall.InstructionWithdraw, From: instance, To: provider, Amount: coin.NewCoinp(1, "usdf")},
			},
			wantErr: errors.ErrUnauthorized,
		},
		"handler failure is returned before any movement": {
			funds:      []*coin.Coin{coin.NewCoinp(100, "usdf")},
			contract:   instance,
			handlerErr: errors.ErrState,
			wantErr:    errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			wallets := NewWalletBucket()
			assert.Nil(t, wallets.Add(db, sender, coin.NewCoin(1000, "usdf")))
			assert.Nil(t, wallets.Add(db, sender, coin.NewCoin(10, "cfigure")))
			assert.Nil(t, wallets.Add(db, instance, coin.NewCoin(100, "usdf")))
			mints := NewMintBucket()
			assert.Nil(t, mints.Allow(db, "shares", 0))
			assert.Nil(t, mints.Allow(db, "capped", 5))

			h := &capcalltest.Handler{
				DeliverResult: capcall.DeliverResult{
					Data:         tc.data,
					Instructions: tc.instructions,
				},
				DeliverErr: tc.handlerErr,
			}
			tx := &capcalltest.Tx{Path: "capital/call", Sender: sender, Contract: tc.contract, Funds: tc.funds}

			res, err := NewDispatcher().Deliver(context.Background(), db, tx, h)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.wantTags, res.Tags)

			for addr, want := range tc.wantBalances {
				got, err := wallets.Balance(db, capcalltest.ParseAddress(t, addr))
				assert.Nil(t, err)
				if !want.Equals(got) {
					t.Errorf("%s: want %s, got %s", addr, want, got)
				}
			}
		})
	}
}

func TestDispatcherFailureRollsBackWithSavepoint(t *testing.T) {
	db := store.MemStore()
	sender := capcalltest.NewAddress()
	instance := capcalltest.NewAddress()
	wallets := NewWalletBucket()
	assert.Nil(t, wallets.Add(db, sender, coin.NewCoin(10, "usdf")))

	stateKey := []byte("capital:state")
	h := &writeThenInstruct{
		key: stateKey,
		instructions: []*capcall.Instruction{
			NewBuilder(instance).Transfer(sender, coin.NewCoin(11, "usdf")),
		},
	}
	chain := capcalltest.Decorate(h, utils.NewSavepoint().OnDeliver(), NewDispatcher())

	tx := &capcalltest.Tx{
		Path:     "capital/commit",
		Sender:   sender,
		Contract: instance,
		Funds:    []*coin.Coin{coin.NewCoinp(10, "usdf")},
	}
	_, err := chain.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	has, err := db.Has(stateKey)
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	got, err := wallets.Balance(db, sender)
	assert.Nil(t, err)
	assert.Equal(t, "10usdf", got.String())
	got, err = wallets.Balance(db, instance)
	assert.Nil(t, err)
	assert.Equal(t, true, got.IsEmpty())
}

func TestDispatcherCheck(t *testing.T) {
	db := store.MemStore()
	sender := capcalltest.NewAddress()
	assert.Nil(t, NewWalletBucket().Add(db, sender, coin.NewCoin(10, "usdf")))

	h := &capcalltest.Handler{}
	tx := &capcalltest.Tx{Sender: sender, Funds: []*coin.Coin{coin.NewCoinp(10, "usdf")}}
	_, err := NewDispatcher().Check(context.Background(), db, tx, h)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.CheckCallCount())

	tx.Funds = []*coin.Coin{coin.NewCoinp(11, "usdf")}
	_, err = NewDispatcher().Check(context.Background(), db, tx, h)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	assert.Equal(t, 1, h.CheckCallCount())
}

// writeThenInstruct writes a value and returns configured instructions.
type writeThenInstruct struct {
	key          []byte
	instructions []*capcall.Instruction
}

func (h *writeThenInstruct) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.CheckResult, error) {
	return &capcall.CheckResult{}, nil
}

func (h *writeThenInstruct) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx) (*capcall.DeliverResult, error) {
	if err := db.Set(h.key, []byte("committed")); err != nil {
		return nil, err
	}
	return &capcall.DeliverResult{Instructions: h.instructions}, nil
}
