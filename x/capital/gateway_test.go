package capital

import (
	"context"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
)

func TestStoreGatewayQueryTerms(t *testing.T) {
	p := newParties()
	db := store.MemStore()
	stored := escrowFixture(p, StatusPendingCapital, SettlementMint)
	assert.Nil(t, NewEscrowBucket().Create(db, stored.Address, stored))

	queries := capcall.NewQueryRouter()
	RegisterQuery(queries)
	gw := NewStoreGateway(db, queries, capcalltest.NewAddress())

	terms, err := gw.QueryTerms(context.Background(), stored.Address)
	assert.Nil(t, err)
	assert.Equal(t, stored.Terms(), terms)

	_, err = gw.QueryTerms(context.Background(), capcalltest.NewAddress())
	assert.IsErr(t, errors.ErrExternal, err)

	malformed := capcalltest.NewAddress()
	noHandler := NewStoreGateway(db, capcall.NewQueryRouter(), malformed)
	_, err = noHandler.QueryTerms(context.Background(), stored.Address)
	assert.IsErr(t, errors.ErrExternal, err)

	garbage := capcall.NewQueryRouter()
	garbage.Register(termsQueryPath, capcall.QueryHandlerFunc(func(capcall.ReadOnlyKVStore, string, []byte) ([]capcall.Model, error) {
		return []capcall.Model{capcall.Pair([]byte("key"), []byte{0xff, 0xff})}, nil
	}))
	_, err = NewStoreGateway(db, garbage, malformed).QueryTerms(context.Background(), stored.Address)
	assert.IsErr(t, errors.ErrExternal, err)

	invalid := capcall.NewQueryRouter()
	invalid.Register(termsQueryPath, capcall.QueryHandlerFunc(func(capcall.ReadOnlyKVStore, string, []byte) ([]capcall.Model, error) {
		raw, err := capcall.Marshal(&Terms{CapitalDenom: "cfigure", MinCapital: 2, MaxCapital: 1})
		return []capcall.Model{capcall.Pair([]byte("key"), raw)}, err
	}))
	_, err = NewStoreGateway(db, invalid, malformed).QueryTerms(context.Background(), stored.Address)
	assert.IsErr(t, errors.ErrExternal, err)
}

func TestQueries(t *testing.T) {
	p := newParties()
	db := store.MemStore()
	stored := escrowFixture(p, StatusCapitalCommitted, SettlementNone)
	assert.Nil(t, NewEscrowBucket().Create(db, stored.Address, stored))

	queries := capcall.NewQueryRouter()
	RegisterQuery(queries)

	models, err := queries.Handler("/capital").Query(db, capcall.KeyQueryMod, stored.Address)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var e Escrow
	assert.Nil(t, capcall.Unmarshal(models[0].Value, &e))
	assert.Equal(t, stored, &e)

	models, err = queries.Handler(statusQueryPath).Query(db, capcall.KeyQueryMod, stored.Address)
	assert.Nil(t, err)
	var s StatusResponse
	assert.Nil(t, capcall.Unmarshal(models[0].Value, &s))
	assert.Equal(t, StatusCapitalCommitted, s.Status)

	models, err = queries.Handler(statusQueryPath).Query(db, capcall.KeyQueryMod, p.dist)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(models))

	_, err = queries.Handler(termsQueryPath).Query(db, "prefix", stored.Address)
	assert.IsErr(t, errors.ErrHuman, err)
}
