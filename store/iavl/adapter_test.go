package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/store"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func openCommitStore(t testing.TB) (CommitStore, func()) {
	dir, err := ioutil.TempDir("", "capcall-iavl-")
	if err != nil {
		t.Fatalf("temp dir: %s", err)
	}
	return NewCommitStore(dir, "state"), func() { os.RemoveAll(dir) }
}

var suite = store.NewSuite(func() (store.CacheableKVStore, func()) {
	commit := NewCommitStoreFromDB(dbm.NewMemDB())
	return commit.Adapter(), func() {}
})

func TestAdapterLayering(t *testing.T) {
	suite.Layering(t)
}

func TestAdapterOverwrites(t *testing.T) {
	suite.Overwrites(t)
}

func TestAdapterNestedDiscard(t *testing.T) {
	suite.NestedDiscard(t)
}

// Blocks are written into the working tree, but queries read the last
// committed version until the next commit.
func TestCommitVersions(t *testing.T) {
	commit, close := openCommitStore(t)
	defer close()
	commit.numHistory = 1

	escrow, wallet := []byte("capital:0001"), []byte("wallet:alice")

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)
	assert.Equal(t, 0, len(id.Hash))

	block := commit.CacheWrap()
	assert.Nil(t, block.Set(escrow, []byte("pending")))
	assert.Nil(t, block.Set(wallet, []byte("100cfigure")))
	assert.Nil(t, block.Write())
	store.AssertValue(t, commit, escrow, nil)

	first, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)
	if len(first.Hash) == 0 {
		t.Fatal("committed state must have a hash")
	}
	store.AssertValue(t, commit, escrow, []byte("pending"))

	block = commit.CacheWrap()
	assert.Nil(t, block.Set(escrow, []byte("committed")))
	assert.Nil(t, block.Delete(wallet))
	assert.Nil(t, block.Write())
	store.AssertValue(t, commit, escrow, []byte("pending"))
	store.AssertValue(t, commit, wallet, []byte("100cfigure"))

	// A layer opened on the working tree sees the uncommitted block.
	store.AssertValue(t, commit.CacheWrap(), escrow, []byte("committed"))

	second, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)
	store.AssertValue(t, commit, escrow, []byte("committed"))
	store.AssertValue(t, commit, wallet, nil)
	if string(first.Hash) == string(second.Hash) {
		t.Fatal("state change must change the hash")
	}
}

// TestReloadFromDisk makes sure a new store on the same database sees the
// last committed version.
func TestReloadFromDisk(t *testing.T) {
	db := dbm.NewMemDB()
	commit := NewCommitStoreFromDB(db)
	assert.Nil(t, commit.LoadLatestVersion())

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("capital:1"), []byte("state")))
	assert.Nil(t, cache.Write())
	want, err := commit.Commit()
	assert.Nil(t, err)

	reloaded := NewCommitStoreFromDB(db)
	assert.Nil(t, reloaded.LoadLatestVersion())
	got, err := reloaded.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	val, err := reloaded.Get([]byte("capital:1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("state"), val)
}
