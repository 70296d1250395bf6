package store

import (
	"testing"

	"github.com/iov-one/capcall/capcalltest/assert"
)

// Suite runs the same checks against any CacheableKVStore. The memory
// store and the iavl adapter share it.
type Suite struct {
	open func() (base CacheableKVStore, close func())
}

// NewSuite returns a suite that runs every check on a fresh store
// returned by open.
func NewSuite(open func() (base CacheableKVStore, close func())) Suite {
	return Suite{open: open}
}

// Layering checks that the writes of a layer are visible in that layer
// only, until it is written to its parent.
func (s Suite) Layering(t *testing.T) {
	base, close := s.open()
	defer close()

	escrow, wallet := []byte("capital:0001"), []byte("wallet:alice")

	AssertValue(t, base, escrow, nil)
	assert.Nil(t, base.Set(escrow, []byte("pending")))
	AssertValue(t, base, escrow, []byte("pending"))

	tx := base.CacheWrap()
	AssertValue(t, tx, escrow, []byte("pending"))
	assert.Nil(t, tx.Set(escrow, []byte("committed")))
	assert.Nil(t, tx.Set(wallet, []byte("1000cfigure")))
	AssertValue(t, tx, escrow, []byte("committed"))
	AssertValue(t, base, escrow, []byte("pending"))
	AssertValue(t, base, wallet, nil)

	assert.Nil(t, tx.Write())
	AssertValue(t, base, escrow, []byte("committed"))
	AssertValue(t, base, wallet, []byte("1000cfigure"))

	rejected := base.CacheWrap()
	assert.Nil(t, rejected.Delete(wallet))
	assert.Nil(t, rejected.Set(escrow, []byte("called")))
	rejected.Discard()
	AssertValue(t, base, escrow, []byte("committed"))
	AssertValue(t, base, wallet, []byte("1000cfigure"))

	// A layer opened before a write to the parent sees that write.
	reader := base.CacheWrap()
	writer := base.CacheWrap()
	assert.Nil(t, writer.Delete(wallet))
	assert.Nil(t, writer.Write())
	AssertValue(t, reader, wallet, nil)
}

// Overwrites checks a layer that replaces and deletes keys of its parent.
func (s Suite) Overwrites(t *testing.T) {
	a, b, c := []byte("capital:a"), []byte("capital:b"), []byte("capital:c")

	cases := map[string]struct {
		parent     []Op
		layer      []Op
		wantParent map[string][]byte
		wantLayer  map[string][]byte
	}{
		"replace one, delete one, add one": {
			parent:     []Op{SetOp(a, []byte("1")), SetOp(b, []byte("2"))},
			layer:      []Op{SetOp(a, []byte("10")), DelOp(b), SetOp(c, []byte("3"))},
			wantParent: map[string][]byte{"capital:a": []byte("1"), "capital:b": []byte("2"), "capital:c": nil},
			wantLayer:  map[string][]byte{"capital:a": []byte("10"), "capital:b": nil, "capital:c": []byte("3")},
		},
		"last write of a key wins": {
			parent:     []Op{SetOp(a, []byte("1"))},
			layer:      []Op{SetOp(a, []byte("2")), DelOp(a), SetOp(a, []byte("3"))},
			wantParent: map[string][]byte{"capital:a": []byte("1")},
			wantLayer:  map[string][]byte{"capital:a": []byte("3")},
		},
		"delete of a missing key": {
			layer:      []Op{DelOp(c)},
			wantParent: map[string][]byte{"capital:c": nil},
			wantLayer:  map[string][]byte{"capital:c": nil},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, close := s.open()
			defer close()

			for _, op := range tc.parent {
				assert.Nil(t, op.Apply(base))
			}
			layer := base.CacheWrap()
			for _, op := range tc.layer {
				assert.Nil(t, op.Apply(layer))
			}

			for k, v := range tc.wantParent {
				AssertValue(t, base, []byte(k), v)
			}
			for k, v := range tc.wantLayer {
				AssertValue(t, layer, []byte(k), v)
			}

			assert.Nil(t, layer.Write())
			for k, v := range tc.wantLayer {
				AssertValue(t, base, []byte(k), v)
			}
		})
	}
}

// NestedDiscard checks that discarding an inner layer drops only its own
// writes, as a failed decorator does inside a transaction.
func (s Suite) NestedDiscard(t *testing.T) {
	base, close := s.open()
	defer close()

	escrow, wallet := []byte("capital:0001"), []byte("wallet:bob")

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set(escrow, []byte("committed")))

	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set(wallet, []byte("5cfigure")))
	assert.Nil(t, inner.Delete(escrow))
	AssertValue(t, inner, escrow, nil)
	AssertValue(t, inner, wallet, []byte("5cfigure"))
	inner.Discard()

	AssertValue(t, outer, escrow, []byte("committed"))
	AssertValue(t, outer, wallet, nil)

	assert.Nil(t, outer.Write())
	AssertValue(t, base, escrow, []byte("committed"))
	AssertValue(t, base, wallet, nil)
}

// AssertValue fails the test unless key holds want. A nil want means the
// key must not exist.
func AssertValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}
