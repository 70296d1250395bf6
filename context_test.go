package capcall

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestBlockValuesAreSetOnce(t *testing.T) {
	ctx := context.Background()

	_, ok := GetHeight(ctx)
	assert.False(t, ok)
	ctx = WithHeight(ctx, 7)
	height, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), height)
	assert.Panics(t, func() { WithHeight(ctx, 8) })

	header := abci.Header{ChainID: "capcall-test", Height: 7}
	_, ok = GetHeader(ctx)
	assert.False(t, ok)
	ctx = WithHeader(ctx, header)
	got, ok := GetHeader(ctx)
	assert.True(t, ok)
	assert.Equal(t, header, got)
	assert.Panics(t, func() { WithHeader(ctx, header) })

	assert.Panics(t, func() { GetChainID(ctx) })
	assert.Panics(t, func() { WithChainID(ctx, "bad;id") })
	ctx = WithChainID(ctx, "capcall-test")
	assert.Equal(t, "capcall-test", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "capcall-other") })
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()

	_, ok := BlockTime(ctx)
	assert.False(t, ok)
	_, ok = BlockTime(WithBlockTime(ctx, time.Time{}))
	assert.False(t, ok, "zero time is not a block time")

	due := time.Date(2021, 3, 15, 14, 0, 0, 0, time.FixedZone("CET", 3600))
	got, ok := BlockTime(WithBlockTime(ctx, due))
	assert.True(t, ok)
	assert.True(t, due.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	// Block time can move forward in a derived context.
	later, ok := BlockTime(WithBlockTime(WithBlockTime(ctx, due), due.Add(time.Hour)))
	assert.True(t, ok)
	assert.Equal(t, time.Hour, later.Sub(got))
}

func TestLoggerFromContext(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx))

	var buf bytes.Buffer
	ctx = WithLogInfo(WithLogger(ctx, log.NewTMLogger(&buf)), "call", "deliver_tx")
	GetLogger(ctx).Info("capital called", "instance", "CAFE")

	out := buf.String()
	require.True(t, strings.Contains(out, "capital called"), out)
	assert.Contains(t, out, "call=deliver_tx")
	assert.Contains(t, out, "instance=CAFE")
}

func TestIsValidChainID(t *testing.T) {
	cases := map[string]bool{
		"":                              false,
		"cap":                           false,
		"capcall":                       true,
		"capcall-test_2":                true,
		"capcall;test":                  false,
		"capcall-chain-id-far-too-long": false,
	}
	for chainID, want := range cases {
		assert.Equal(t, want, IsValidChainID(chainID), chainID)
	}
}
