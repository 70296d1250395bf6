package store

import "github.com/iov-one/capcall"

// Store interfaces of the ledger, aliased so that implementations in this
// package and in store/iavl read without the capcall prefix.
type (
	ReadOnlyKVStore  = capcall.ReadOnlyKVStore
	SetDeleter       = capcall.SetDeleter
	KVStore          = capcall.KVStore
	Batch            = capcall.Batch
	CacheableKVStore = capcall.CacheableKVStore
	KVCacheWrap      = capcall.KVCacheWrap
	CommitKVStore    = capcall.CommitKVStore
	CommitID         = capcall.CommitID
)
