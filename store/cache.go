package store

import (
	"bytes"

	"github.com/google/btree"
)

// degree of the btree holding the writes of a cache layer
const cacheDegree = 2

// Cache keeps the uncommitted writes of a single transaction, or of a
// part of it, in a btree on top of a readable parent.
//
// Reads of keys not touched by the layer fall through to the parent.
// Every write is also recorded in the output batch, so that Write can
// replay them on the parent in the original order.
type Cache struct {
	entries *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	out     Batch
}

var _ KVCacheWrap = Cache{}

// NewCache returns an empty layer over parent, writing into out. free is
// shared between nested layers and may be nil.
func NewCache(parent ReadOnlyKVStore, out Batch, free *btree.FreeList) Cache {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return Cache{
		entries: btree.NewWithFreeList(cacheDegree, free),
		free:    free,
		parent:  parent,
		out:     out,
	}
}

// MemStore returns a store that lives only in memory. Ledger state of
// tests and check-only runs is kept here.
func MemStore() CacheableKVStore {
	var null nullStore
	return NewCache(null, NewJournal(null), nil)
}

// CacheWrap opens a nested layer. Its Write lands in this one.
func (c Cache) CacheWrap() KVCacheWrap {
	return NewCache(c, c.NewBatch(), c.free)
}

// NewBatch returns a journal that writes into this layer.
func (c Cache) NewBatch() Batch {
	return NewJournal(c)
}

// Write replays all writes of this layer on the parent and clears the
// layer.
func (c Cache) Write() error {
	defer c.Discard()
	return c.out.Write()
}

// Discard drops all writes of this layer.
func (c Cache) Discard() {
	for c.entries.DeleteMin() != nil {
	}
}

func (c Cache) Set(key, value []byte) error {
	c.entries.ReplaceOrInsert(entry{key: key, value: value})
	return c.out.Set(key, value)
}

func (c Cache) Delete(key []byte) error {
	c.entries.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.out.Delete(key)
}

func (c Cache) Get(key []byte) ([]byte, error) {
	e, ok := c.lookup(key)
	if !ok {
		return c.parent.Get(key)
	}
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (c Cache) Has(key []byte) (bool, error) {
	e, ok := c.lookup(key)
	if !ok {
		return c.parent.Has(key)
	}
	return !e.deleted, nil
}

// lookup returns the entry of this layer for key, if the layer touched it.
func (c Cache) lookup(key []byte) (entry, bool) {
	item := c.entries.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// entry is a key written in a cache layer. A deleted entry hides the
// value of the parent.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
