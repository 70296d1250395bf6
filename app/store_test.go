package app

import (
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
	"github.com/iov-one/capcall/store/iavl"
	"github.com/stretchr/testify/require"
)

func TestChainIDIsWrittenOnce(t *testing.T) {
	db := store.MemStore()

	id, err := loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "", id)

	assert.IsErr(t, errors.ErrInput, saveChainID(db, "no"))
	assert.Nil(t, saveChainID(db, "capcall-test-1"))
	assert.IsErr(t, errors.ErrState, saveChainID(db, "capcall-test-2"))

	id, err = loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "capcall-test-1", id)
}

func TestStateCommit(t *testing.T) {
	state, err := OpenState(iavl.NewCommitStore("", ""))
	require.NoError(t, err)

	wallet, balance := []byte("wallet:alice"), []byte("1000fundshares")
	assert.Nil(t, state.Deliver().Set(wallet, balance))
	assert.Nil(t, state.Check().Set([]byte("wallet:bob"), balance))

	// Neither layer reaches the snapshot before a commit.
	snap := state.Snapshot()
	store.AssertValue(t, snap, wallet, nil)
	store.AssertValue(t, state.Check(), wallet, nil)

	id, err := state.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)

	store.AssertValue(t, state.Check(), wallet, balance)
	store.AssertValue(t, state.Snapshot(), wallet, balance)
	store.AssertValue(t, state.Snapshot(), []byte("wallet:bob"), nil)

	last, err := state.LastCommit()
	require.NoError(t, err)
	assert.Equal(t, id.Version, last.Version)
	assert.Equal(t, id.Hash, last.Hash)
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"no modifier":    {path: "/capital/status", wantPath: "/capital/status"},
		"with modifier":  {path: "/wallets?prefix", wantPath: "/wallets", wantMod: "prefix"},
		"empty modifier": {path: "/?", wantPath: "/", wantMod: ""},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}

func TestDecodeResults(t *testing.T) {
	keys, values, err := encodeResults([]capcall.Model{
		capcall.Pair([]byte("wallets:a"), []byte("10")),
		capcall.Pair([]byte("wallets:b"), []byte("20")),
	})
	require.NoError(t, err)

	found, err := DecodeResults(keys, values)
	require.NoError(t, err)
	assert.Equal(t, 2, len(found))
	assert.Equal(t, []byte("wallets:b"), found[1].Key)
	assert.Equal(t, []byte("20"), found[1].Value)

	_, err = DecodeResults(keys, nil)
	assert.IsErr(t, errors.ErrState, err)

	empty, _, err := encodeResults(nil)
	require.NoError(t, err)
	found, err = DecodeResults(empty, empty)
	require.NoError(t, err)
	assert.Equal(t, 0, len(found))
}
