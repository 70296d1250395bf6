package orm

import (
	"encoding/binary"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// IDSequence names the sequence that numbers the objects of a bucket.
const IDSequence = "id"

// Sequence is a persistent counter. Values are handed out once, starting
// at 1, and encoded big endian so that later values sort after earlier
// ones.
type Sequence struct {
	key []byte
}

// NewSequence returns the counter stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// Next increments the counter and returns the new value, encoded.
func (s Sequence) Next(db capcall.KVStore) ([]byte, error) {
	n, err := s.Current(db)
	if err != nil {
		return nil, err
	}
	raw := encodeSeq(n + 1)
	if err := db.Set(s.key, raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return raw, nil
}

// Current returns the last value handed out, or zero for a counter that
// was never used.
func (s Sequence) Current(db capcall.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return decodeSeq(raw)
}

func encodeSeq(n uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	return raw
}

func decodeSeq(raw []byte) (uint64, error) {
	switch len(raw) {
	case 0:
		return 0, nil
	case 8:
		return binary.BigEndian.Uint64(raw), nil
	default:
		return 0, errors.Wrapf(errors.ErrDatabase, "sequence value of %d bytes", len(raw))
	}
}
