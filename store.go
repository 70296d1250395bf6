package capcall

// Ledger state lives in a key value store. Instances, wallets, custody
// accounts and mint authorities are all kept under their own bucket
// prefix in a single store.

// ReadOnlyKVStore reads the ledger. Get returns nil for a missing key.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// SetDeleter writes the ledger. The store may keep the passed slices, so
// callers must not modify them afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is what handlers and decorators operate on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch groups writes that are applied together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore can open a layer of pending writes over itself. A
// transaction runs on such a layer so that a rejected message leaves no
// trace, much like a database savepoint.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a layer of pending writes. Reads see the writes of the
// layer on top of its parent. Write applies them to the parent, Discard
// drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the versioned root of the ledger. Every Commit
// persists a new version whose hash becomes the app hash.
type CommitKVStore interface {
	ReadOnlyKVStore
	CacheWrap() KVCacheWrap

	Commit() (CommitID, error)
	// LoadLatestVersion loads the last complete commit, even after a
	// crash in the middle of a commit.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version of the ledger.
type CommitID struct {
	Version int64
	Hash    []byte
}
