/*
Package orm stores ledger objects in the key value store.

Each kind of object, such as escrows or wallets, lives in its own Bucket.
A bucket prefixes the keys of its objects with "<name>:" and validates
every object before it is written. Sequences hand out the ids of new
objects.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is an object that can be kept in a Bucket.
type Model interface {
	capcall.Persistent
	Validate() error
}

// Bucket holds objects of a single type under a common key prefix. It is
// meant to be embedded in a typed wrapper, such as the escrow bucket.
type Bucket struct {
	name   string
	prefix []byte
}

var _ capcall.QueryHandler = Bucket{}

// NewBucket panics unless name is 3 to 10 lower case letters or
// underscores.
func NewBucket(name string) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":")}
}

// Sequence returns a counter kept next to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Register serves key lookups of this bucket at "/<path>". An empty path
// uses the bucket name.
func (b Bucket) Register(path string, r capcall.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
}

// Query supports key lookups only. A missing key returns no models.
func (b Bucket) Query(db capcall.ReadOnlyKVStore, mod string, data []byte) ([]capcall.Model, error) {
	if mod != capcall.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrHuman, "%s does not support %q queries", b.name, mod)
	}
	key := b.DBKey(data)
	raw, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	return []capcall.Model{capcall.Pair(key, raw)}, nil
}

// DBKey returns the store key of the object with given id. The result
// never shares memory with the bucket prefix.
func (b Bucket) DBKey(id []byte) []byte {
	key := make([]byte, 0, len(b.prefix)+len(id))
	key = append(key, b.prefix...)
	return append(key, id...)
}

// Has reports whether an object is stored under id.
func (b Bucket) Has(db capcall.ReadOnlyKVStore, id []byte) (bool, error) {
	if len(id) == 0 {
		return false, errors.Wrapf(errors.ErrInput, "%s: empty id", b.name)
	}
	return db.Has(b.DBKey(id))
}

// One decodes the object stored under id into dst. A missing object is
// ErrNotFound.
func (b Bucket) One(db capcall.ReadOnlyKVStore, id []byte, dst Model) error {
	if len(id) == 0 {
		return errors.Wrapf(errors.ErrInput, "%s: empty id", b.name)
	}
	raw, err := db.Get(b.DBKey(id))
	switch {
	case err != nil:
		return errors.Wrapf(err, "%s get", b.name)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, id)
	}
	return errors.Wrapf(capcall.Unmarshal(raw, dst), "%s unmarshal", b.name)
}

// Save writes src under id, replacing what was there. Invalid objects
// are never written.
func (b Bucket) Save(db capcall.KVStore, id []byte, src Model) error {
	if len(id) == 0 {
		return errors.Wrapf(errors.ErrInput, "%s: empty id", b.name)
	}
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "%s validate", b.name)
	}
	raw, err := capcall.Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "%s marshal", b.name)
	}
	return db.Set(b.DBKey(id), raw)
}

// Create is Save for a new object. It fails with ErrDuplicate when id is
// taken.
func (b Bucket) Create(db capcall.KVStore, id []byte, src Model) error {
	taken, err := b.Has(db, id)
	if err != nil {
		return err
	}
	if taken {
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", b.name, id)
	}
	return b.Save(db, id, src)
}
